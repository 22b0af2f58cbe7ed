package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/Picocrypt/zxcvbn-go"
	"golang.org/x/term"

	"fourcrypt/internal/config"
)

var strengthLabel = [...]string{"very weak", "weak", "fair", "strong", "very strong"}

var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordEmpty    = errors.New("password cannot be empty")
	ErrPasswordTooLong  = fmt.Errorf("password longer than %d bytes", config.MaxPw)
)

// isTerminal returns true if stdin is a terminal (not piped/redirected).
func isTerminal() bool {
	return term.IsTerminal(int(syscall.Stdin))
}

// readPasswordSecure reads a password from stdin without echo.
// Falls back to buffered read if stdin is not a terminal.
func readPasswordSecure(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)

	if !isTerminal() {
		reader := bufio.NewReader(os.Stdin)
		pw, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("reading password: %w", err)
		}
		pw = strings.TrimSuffix(pw, "\n")
		pw = strings.TrimSuffix(pw, "\r")
		return []byte(pw), nil
	}

	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	return pw, nil
}

// TerminalPrompter acquires the password and, optionally, supplemental
// entropy from the terminal (or piped stdin). It implements
// engine.PasswordPrompter.
type TerminalPrompter struct{}

// Prompt reads the password once, or twice with confirmation when confirm
// is true, rejecting empty or over-length input (spec.md's MAX_PW=125).
func (TerminalPrompter) Prompt(confirm bool) ([]byte, error) {
	password, err := readPasswordSecure("Password: ")
	if err != nil {
		return nil, err
	}
	if len(password) == 0 {
		return nil, ErrPasswordEmpty
	}
	if len(password) > config.MaxPw {
		return nil, ErrPasswordTooLong
	}

	if confirm {
		score := zxcvbn.PasswordStrength(string(password), nil).Score
		if score >= 0 && score < len(strengthLabel) {
			fmt.Fprintf(os.Stderr, "Password strength: %s\n", strengthLabel[score])
		}

		again, err := readPasswordSecure("Confirm password: ")
		if err != nil {
			return nil, err
		}
		if string(again) != string(password) {
			return nil, ErrPasswordMismatch
		}
	}
	return password, nil
}

// PromptEntropy reads supplemental CSPRNG-reseed entropy from the
// terminal, under the SupplementEntropy flag.
func (TerminalPrompter) PromptEntropy() ([]byte, error) {
	entropy, err := readPasswordSecure("Entropy: ")
	if err != nil {
		return nil, err
	}
	if len(entropy) > config.MaxPw {
		return nil, ErrPasswordTooLong
	}
	return entropy, nil
}

// ReadPasswordFromStdin reads one line from stdin as a password, stripping
// the trailing "\n" or "\r\n", for piped non-interactive invocations.
func ReadPasswordFromStdin() ([]byte, error) {
	reader := bufio.NewReader(os.Stdin)
	pw, err := reader.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("reading password from stdin: %w", err)
	}
	pw = strings.TrimSuffix(pw, "\n")
	pw = strings.TrimSuffix(pw, "\r")
	return []byte(pw), nil
}
