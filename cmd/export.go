package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/SewarRihani/OnlineLabelingApp/internal/labelio"
	"github.com/SewarRihani/OnlineLabelingApp/internal/models"
	"github.com/SewarRihani/OnlineLabelingApp/internal/storage"
	"github.com/spf13/cobra"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var user string
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a user's labels as CSV or Parquet",
		Example: `  # Write alice_labels.parquet
  labeler export --user alice --format parquet

  # CSV to stdout
  labeler export --user alice --output -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "csv" && format != "parquet" {
				return fmt.Errorf("unsupported format: %s (supported: csv, parquet)", format)
			}

			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			overrideString(cmd, "labels-dir", &cfg.LabelsDir)

			records, err := storage.NewLabelStore(cfg.LabelsDir).Load(user)
			if err != nil {
				return fmt.Errorf("failed to load labels for %s: %w", user, err)
			}

			if output == "" {
				output = fmt.Sprintf("%s_labels.%s", user, format)
			}
			if output == "-" {
				return writeLabels(cmd.OutOrStdout(), records, format)
			}

			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			if err := writeLabels(file, records, format); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("failed to close output file: %w", err)
			}

			slog.Info("Labels exported", "user", user, "records", len(records), "format", format, "output", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "Username whose labels to export (required)")
	cmd.Flags().StringVar(&format, "format", "csv", "Output format (csv or parquet)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path, - for stdout (default <user>_labels.<format>)")
	cmd.Flags().String("labels-dir", "", "Directory holding per-user label files (default from config: labels)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func writeLabels(w io.Writer, records []models.LabelRecord, format string) error {
	switch format {
	case "csv":
		return labelio.WriteCSV(w, records)
	case "parquet":
		return labelio.WriteParquet(w, records)
	default:
		return fmt.Errorf("unsupported format: %s (supported: csv, parquet)", format)
	}
}
