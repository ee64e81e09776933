package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/forPelevin/vid2article/internal/pipeline"
)

func newGenerateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <review.yaml>",
		Short: "Generate article.html from a reviewed bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err != nil {
				return fmt.Errorf("review: %w", err)
			}
			s, err := a.start()
			if err != nil {
				return err
			}
			defer s.release()

			pc := a.pipelineConfig(s, "")
			if err := pc.Validate(); err != nil {
				return fmt.Errorf("config: %w", err)
			}
			gr, err := pipeline.Generate(s.ctx, pc, args[0])
			if err != nil {
				return s.fail("generate", err)
			}
			fmt.Fprintf(a.stdout, "article: %s (%s)\n", gr.ArticlePath, humanBytes(gr.Size))
			return nil
		},
	}
}
