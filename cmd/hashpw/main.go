// Command hashpw prints the bcrypt hash of a password so accounts can be
// seeded directly in the database during development.
//
// Usage:
//
//	hashpw <password>
package main

import (
	"fmt"
	"os"

	"github.com/dhallem/taskgate-api/internal/service/auth"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: hashpw <password>")
		os.Exit(1)
	}

	hash, err := auth.NewBcryptHasher().Hash(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
