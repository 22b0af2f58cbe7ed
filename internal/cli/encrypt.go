package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"fourcrypt/internal/config"
	"fourcrypt/internal/engine"
	"fourcrypt/internal/padding"
)

func newEncryptCmd() *cobra.Command {
	var (
		output     string
		entropy    bool
		enterOnce  bool
		usePhi     bool
		highMem    string
		lowMem     string
		useMem     string
		iterations uint8
		threads    uint64
		batchSize  uint64
		padBy      string
		padTo      string
		padAsIf    string
		fast       bool
		normal     bool
		strong     bool
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "encrypt <input>",
		Short: "Encrypt a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.New()
			if err := cfg.SetMode(config.ModeEncrypt); err != nil {
				return err
			}
			cfg.InputPath = args[0]
			cfg.OutputPath = output

			switch {
			case strong:
				cfg.SetStrong()
			case fast:
				cfg.SetFast()
			case normal:
				cfg.SetNormal()
			}

			if entropy {
				cfg.Flags |= config.SupplementEntropy
			}
			if enterOnce {
				cfg.Flags |= config.EnterPassOnce
			}
			if usePhi {
				cfg.Flags |= config.EnablePhi
			}

			if highMem != "" {
				shift, err := parseMemory(highMem)
				if err != nil {
					return err
				}
				cfg.SetHighMemory(shift)
			}
			if lowMem != "" {
				shift, err := parseMemory(lowMem)
				if err != nil {
					return err
				}
				cfg.SetLowMemory(shift)
			}
			if useMem != "" {
				shift, err := parseMemory(useMem)
				if err != nil {
					return err
				}
				cfg.MemLow, cfg.MemHigh = shift, shift
			}
			if iterations != 0 {
				cfg.Iterations = iterations
			}
			if threads != 0 {
				cfg.ThreadCount = threads
			}
			cfg.ThreadBatchSize = batchSize

			padModes := 0
			if padBy != "" {
				padModes++
				n, err := parsePadding(padBy)
				if err != nil {
					return err
				}
				cfg.PaddingMode, cfg.PaddingSize = padding.Add, n
			}
			if padTo != "" {
				padModes++
				n, err := parsePadding(padTo)
				if err != nil {
					return err
				}
				cfg.PaddingMode, cfg.PaddingSize = padding.Target, n
			}
			if padAsIf != "" {
				padModes++
				n, err := parsePadding(padAsIf)
				if err != nil {
					return err
				}
				cfg.PaddingMode, cfg.PaddingSize = padding.AsIf, n
			}
			if padModes > 1 {
				return fmt.Errorf("--pad-by, --pad-to, and --pad-as-if are mutually exclusive")
			}

			reporter := NewReporter(quiet)
			err := engine.Encrypt(cfg, TerminalPrompter{}, reporter.Callback())
			reporter.Finish()
			if err != nil {
				reporter.PrintError("%v", err)
				return err
			}
			reporter.PrintSuccess("Encrypted %s -> %s", cfg.InputPath, cfg.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path")
	cmd.Flags().BoolVarP(&entropy, "entropy", "E", false, "prompt for supplemental CSPRNG entropy")
	cmd.Flags().BoolVarP(&enterOnce, "enter-password-once", "1", false, "skip password confirmation prompt")
	cmd.Flags().BoolVarP(&usePhi, "use-phi", "P", false, "enable Catena's Phi hardening")
	cmd.Flags().StringVarP(&highMem, "high-memory", "H", "", "set mem_high (N[K|M|G])")
	cmd.Flags().StringVarP(&lowMem, "low-memory", "L", "", "set mem_low (N[K|M|G])")
	cmd.Flags().StringVarP(&useMem, "use-memory", "M", "", "set both memory bounds (N[K|M|G])")
	cmd.Flags().Uint8VarP(&iterations, "iterations", "I", 0, "Catena iterations (1-255)")
	cmd.Flags().Uint64VarP(&threads, "threads", "T", 0, "KDF thread count")
	cmd.Flags().Uint64VarP(&batchSize, "batch-size", "B", 0, "max simultaneous KDF threads")
	cmd.Flags().StringVar(&padBy, "pad-by", "", "Add-mode padding (N[K|M|G])")
	cmd.Flags().StringVar(&padTo, "pad-to", "", "Target-mode padding (N[K|M|G])")
	cmd.Flags().StringVar(&padAsIf, "pad-as-if", "", "AsIf-mode padding (N[K|M|G])")
	cmd.Flags().BoolVar(&fast, "fast", false, "apply the fast memory preset")
	cmd.Flags().BoolVar(&normal, "normal", false, "apply the normal memory preset")
	cmd.Flags().BoolVar(&strong, "strong", false, "apply the strong memory preset (enables Phi)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")

	return cmd
}
