package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"fourcrypt/internal/config"
	"fourcrypt/internal/engine"
)

func newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "describe <input>",
		Aliases: []string{"dump"},
		Short:   "Print a 4crypt file's header fields without decrypting",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.New()
			if err := cfg.SetMode(config.ModeDescribe); err != nil {
				return err
			}
			cfg.InputPath = args[0]

			report, err := engine.Describe(cfg)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report)
			return nil
		},
	}
	return cmd
}
