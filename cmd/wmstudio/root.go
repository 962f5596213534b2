package main

import (
	"github.com/spf13/cobra"

	"wmstudio/internal/config"
	"wmstudio/pkg/logger"
)

var (
	cfgFile string
	quiet   bool
	cfg     *config.Config
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wmstudio",
		Short:         "Stamp a text or logo watermark onto an image",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Quiet = quiet

			loaded, err := config.Load(cfgFile)
			if err != nil {
				logger.LogFatal("%v", err)
			}
			cfg = loaded

			if cfg.App.Banner && !quiet {
				printSignature(cfg.App.Name, cfg.App.Version)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print warnings and errors")

	rootCmd.AddCommand(newRenderCmd(), newTemplatesCmd())
	return rootCmd
}
