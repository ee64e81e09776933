package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/forPelevin/vid2article/internal/errs"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorText(err))
		os.Exit(1)
	}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "vid2article",
		Short:         "Turn a transcript, video or screenshots into a styled HTML article",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config TOML (default: ./vid2article.toml or ~/.config/vid2article/config.toml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")

	root.AddCommand(
		newRunCommand(a),
		newPrepareCommand(a),
		newGenerateCommand(a),
		newConfigCommand(a),
	)
	return root
}

// stageError marks a failure inside preparation or generation; only the
// short user message is printed for it, the detail goes to the log.
type stageError struct{ err error }

func (e *stageError) Error() string { return e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

func errorText(err error) string {
	var se *stageError
	if errors.As(err, &se) {
		return errs.UserMessage(se.err)
	}
	return err.Error()
}
