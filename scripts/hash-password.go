// Hashes a password for admin provisioning. Feed the output to
// cmd/seed-admin via SEED_ADMIN_PASSWORD_HASH, or paste it into a
// migration that seeds the admins table.
package main

import (
	"fmt"
	"os"

	"github.com/ecommercemm/auth-server-go/internal/util"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: go run scripts/hash-password.go <password>\n")
		os.Exit(1)
	}

	hash, err := util.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
