package cli

import (
	"github.com/spf13/cobra"

	"fourcrypt/internal/config"
	"fourcrypt/internal/engine"
)

func newDecryptCmd() *cobra.Command {
	var (
		output string
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:   "decrypt <input>",
		Short: "Decrypt a 4crypt file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.New()
			if err := cfg.SetMode(config.ModeDecrypt); err != nil {
				return err
			}
			cfg.InputPath = args[0]
			cfg.OutputPath = output

			reporter := NewReporter(quiet)
			err := engine.Decrypt(cfg, TerminalPrompter{}, reporter.Callback())
			reporter.Finish()
			if err != nil {
				reporter.PrintError("%v", err)
				return err
			}
			reporter.PrintSuccess("Decrypted %s -> %s", cfg.InputPath, cfg.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
	return cmd
}
