package cmd

import (
	"log/slog"
	"os"

	"github.com/SewarRihani/OnlineLabelingApp/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "labeler",
		Short: "Browser-based manual labeling of cat and dog audio clips",
		Long: `Labeler serves a single-page web form for labeling audio clips one at a time
as Positive, Negative, or Unknown.

Progress is saved per user under the labels directory after every action and
can be resumed from the saved file or from an uploaded progress file.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "Path to YAML config file")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Verbose logging")

	// Add subcommands
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newStatusCmd(opts))
	cmd.AddCommand(newExportCmd(opts))

	return cmd
}

// loadConfig reads the config file; it must exist only when --config was set
func (o *rootOptions) loadConfig(cmd *cobra.Command) (config.Config, error) {
	return config.Load(o.configPath, cmd.Flags().Changed("config"))
}

// overrideString applies a command flag over the config when it was set
func overrideString(cmd *cobra.Command, name string, dst *string) {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		*dst = v
	}
}

// addCatalogFlags registers the flags shared by commands that read the
// catalog and the label store.
func addCatalogFlags(cmd *cobra.Command) {
	cmd.Flags().String("audio-dir", "", "Root directory of audio clips (default from config: data)")
	cmd.Flags().String("archive", "", "Zip archive to extract when the audio directory is missing")
	cmd.Flags().String("labels-dir", "", "Directory holding per-user label files (default from config: labels)")
}

func applyCatalogFlags(cmd *cobra.Command, cfg *config.Config) {
	overrideString(cmd, "audio-dir", &cfg.AudioDir)
	overrideString(cmd, "archive", &cfg.Archive)
	overrideString(cmd, "labels-dir", &cfg.LabelsDir)
}
