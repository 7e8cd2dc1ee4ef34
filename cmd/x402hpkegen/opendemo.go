package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/x402/x402hpke"
)

func openDemoCmd() *cobra.Command {
	var ns, privPath, envelopePath string

	cmd := &cobra.Command{
		Use:   "open-demo",
		Short: "Open an envelope written by seal-demo",
		RunE: func(cmd *cobra.Command, args []string) error {
			priv, err := readJWK(privPath)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(envelopePath)
			if err != nil {
				return fmt.Errorf("read %s: %w", envelopePath, err)
			}
			var wire struct {
				Envelope *x402hpke.Envelope `json:"envelope"`
			}
			if err := json.Unmarshal(data, &wire); err != nil {
				return fmt.Errorf("parse %s: %w", envelopePath, err)
			}
			if wire.Envelope == nil {
				return fmt.Errorf("%s has no \"envelope\" field", envelopePath)
			}

			result, err := x402hpke.Open(ns, priv, wire.Envelope)
			if err != nil {
				return fmt.Errorf("open: %w", err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"headers": result.Headers,
				"body":    result.Body,
			})
		},
	}
	cmd.Flags().StringVar(&ns, "ns", "", "namespace the envelope was sealed under")
	cmd.Flags().StringVar(&privPath, "priv", "", "path to the recipient's private JWK file")
	cmd.Flags().StringVar(&envelopePath, "envelope", "", "path to the JSON produced by seal-demo")
	cmd.MarkFlagRequired("ns")
	cmd.MarkFlagRequired("priv")
	cmd.MarkFlagRequired("envelope")
	return cmd
}
