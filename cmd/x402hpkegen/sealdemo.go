package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/x402/x402hpke"
)

func sealDemoCmd() *cobra.Command {
	var ns, kid, pubPath, payload string
	var publicNames, scheme, network string

	cmd := &cobra.Command{
		Use:   "seal-demo",
		Short: "Seal a PAYMENT transport against a recipient public key",
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := readJWK(pubPath)
			if err != nil {
				return err
			}

			var content map[string]interface{}
			if err := json.Unmarshal([]byte(payload), &content); err != nil {
				return fmt.Errorf("parse --payload as JSON object: %w", err)
			}

			transport, err := x402hpke.NewPayment(map[string]interface{}{
				"x402Version": 1,
				"scheme":      scheme,
				"network":     network,
				"payload":     content,
			}, nil)
			if err != nil {
				return fmt.Errorf("build PAYMENT transport: %w", err)
			}

			var opts []x402hpke.SealOption
			if publicNames != "" {
				opts = append(opts, x402hpke.MakeEntitiesPublic(strings.Split(publicNames, ",")...))
			}

			result, err := x402hpke.Seal(ns, kid, pub, transport, opts...)
			if err != nil {
				return fmt.Errorf("seal: %w", err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"envelope": result.Envelope,
				"sidecar":  result.Sidecar,
			})
		},
	}
	cmd.Flags().StringVar(&ns, "ns", "", "namespace (required, must not be \"x402\")")
	cmd.Flags().StringVar(&kid, "kid", "", "recipient key identifier to stamp onto the envelope")
	cmd.Flags().StringVar(&pubPath, "pub", "", "path to the recipient's public JWK file")
	cmd.Flags().StringVar(&payload, "payload", "{}", "PAYMENT payload as a JSON object")
	cmd.Flags().StringVar(&scheme, "scheme", "exact", "PAYMENT scheme")
	cmd.Flags().StringVar(&network, "network", "base", "PAYMENT network")
	cmd.Flags().StringVar(&publicNames, "public", "", "comma-separated header/body names to project into the sidecar")
	cmd.MarkFlagRequired("ns")
	cmd.MarkFlagRequired("pub")
	return cmd
}
