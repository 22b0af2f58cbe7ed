package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version is set by main.go
var Version = "dev"

// rootCmd is the base command when called without subcommands
var rootCmd = &cobra.Command{
	Use:   "4crypt",
	Short: "Memory-hard, password-based file encryption",
	Long: `4crypt is a symmetric, memory-hard, password-based file encryption
tool producing self-describing, authenticated ciphertext files. It uses:
  - Threefish-512 in counter mode for the bulk cipher
  - Skein-512 / UBI for hashing, MAC, and CSPRNG state
  - Catena-512 (with optional Phi hardening) as the memory-hard KDF`,
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var cancelRequested bool

// Execute runs the CLI application, returning a process exit code.
func Execute(version string) int {
	Version = version
	rootCmd.Version = version

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancelRequested = true
	}()

	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(newEncryptCmd())
	rootCmd.AddCommand(newDecryptCmd())
	rootCmd.AddCommand(newDescribeCmd())
}
