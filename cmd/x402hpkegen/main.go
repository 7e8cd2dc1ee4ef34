// Command x402hpkegen generates X25519 JWK key pairs and exercises
// Seal/Open against them from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "x402hpkegen",
		Short: "Generate keys and drive the x402 HPKE envelope codec",
	}
	root.AddCommand(keygenCmd(), sealDemoCmd(), openDemoCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
