package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forPelevin/vid2article/internal/pipeline"
)

type inputFlags struct {
	transcript  string
	video       string
	screenshots []string
	out         string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.transcript, "transcript", "", "Transcript text file")
	cmd.Flags().StringVar(&f.video, "video", "", "Video file")
	cmd.Flags().StringArrayVar(&f.screenshots, "screenshot", nil, "Screenshot image (repeatable)")
	cmd.Flags().StringVar(&f.out, "out", "", "Output directory (default: paths.out_dir)")
}

func (f *inputFlags) paths() inputPaths {
	return inputPaths{Transcript: f.transcript, Video: f.video, Screenshots: f.screenshots}
}

func (f *inputFlags) validate() error {
	if f.transcript == "" && f.video == "" && len(f.screenshots) == 0 {
		return errors.New("at least one of --transcript, --video or --screenshot is required")
	}
	return nil
}

func newRunCommand(a *app) *cobra.Command {
	var f inputFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Prepare and generate the article in one go",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := f.validate(); err != nil {
				return err
			}
			s, err := a.start()
			if err != nil {
				return err
			}
			defer s.release()

			in, err := loadInputs(f.paths())
			if err != nil {
				return err
			}
			pc := a.pipelineConfig(s, f.out)
			if err := pc.Validate(); err != nil {
				return fmt.Errorf("config: %w", err)
			}

			pr, gr, err := pipeline.Run(s.ctx, pc, in, f.paths().runName())
			if err != nil {
				return s.fail("run", err)
			}
			return writeSummary(a.stdout, summaryRows(pr, &gr))
		},
	}
	f.register(cmd)
	return cmd
}

func newPrepareCommand(a *app) *cobra.Command {
	var f inputFlags
	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Prepare transcript and images for review",
		Long: "Prepare runs transcription, correction and image selection and writes review.yaml " +
			"with the chosen images. Edit it, then run 'vid2article generate <review.yaml>'.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := f.validate(); err != nil {
				return err
			}
			s, err := a.start()
			if err != nil {
				return err
			}
			defer s.release()

			in, err := loadInputs(f.paths())
			if err != nil {
				return err
			}
			pc := a.pipelineConfig(s, f.out)
			if err := pc.Validate(); err != nil {
				return fmt.Errorf("config: %w", err)
			}

			pr, err := pipeline.Prepare(s.ctx, pc, in, f.paths().runName())
			if err != nil {
				return s.fail("prepare", err)
			}
			return writeSummary(a.stdout, summaryRows(pr, nil))
		},
	}
	f.register(cmd)
	return cmd
}
