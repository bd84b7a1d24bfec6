package cmd

import (
	"github.com/SewarRihani/OnlineLabelingApp/internal/catalog"
	"github.com/SewarRihani/OnlineLabelingApp/internal/report"
	"github.com/SewarRihani/OnlineLabelingApp/internal/storage"
	"github.com/spf13/cobra"
)

func newStatusCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show labeling progress for every user",
		Long: `Reads every label file in the labels directory and compares it with the
audio catalog: how many files each user has labeled, how many remain, and the
split by label and species.`,
		Example: `  # Text report
  labeler status

  # CSV for a spreadsheet
  labeler status --format csv > progress.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			applyCatalogFlags(cmd, &cfg)

			if err := catalog.Materialize(cfg.AudioDir, cfg.Archive); err != nil {
				return err
			}
			files, err := catalog.Scan(cfg.AudioDir, cfg.Extensions)
			if err != nil {
				return err
			}

			summary, err := report.Build(files, storage.NewLabelStore(cfg.LabelsDir))
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout(), summary, format)
		},
	}

	addCatalogFlags(cmd)
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json, csv)")

	return cmd
}
