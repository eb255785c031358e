package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"pdfchat/config"
	"pdfchat/internal/logger"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
	workDir string
)

var rootCmd = &cobra.Command{
	Use:   "pdfchat",
	Short: "Ask questions about PDF documents with cited answers",
	Long: `pdfchat indexes PDF documents into an embedding-based similarity index
and answers questions about them with a local language model, streaming
the answer and citing the source files and pages it drew from.

Example usage:
  pdfchat ask paper.pdf -q "what are the key findings?"
  pdfchat chat docs/                # interactive session over a directory
  pdfchat keywords -q "gravitational wave mergers in binary systems"`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if workDir == "" {
			workDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(workDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger.SetVerbose(verbose || cfg.Logging.Level == "debug")
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./pdfchat.yaml)")
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "d", "", "working directory (default is current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func GetConfig() *config.Config {
	return cfg
}

func GetWorkDir() string {
	return workDir
}
