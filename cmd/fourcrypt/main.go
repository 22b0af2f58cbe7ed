// 4crypt
//
// 4crypt is a symmetric, memory-hard, password-based file encryption tool
// that uses:
//   - Threefish-512 in counter mode for the bulk cipher
//   - Skein-512 / UBI for hashing, MAC, and CSPRNG state
//   - Catena-512 (with optional Phi hardening) as the memory-hard KDF
package main

import (
	"os"

	"fourcrypt/internal/cli"
)

const version = "v0.1"

func main() {
	os.Exit(cli.Execute(version))
}
