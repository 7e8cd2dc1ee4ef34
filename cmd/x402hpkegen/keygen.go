package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/x402/x402hpke/keys"
)

func keygenCmd() *cobra.Command {
	var kid string
	var outDir string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an X25519 OKP JWK key pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			priv, pub, err := keys.Generate(kid)
			if err != nil {
				return fmt.Errorf("generate key pair: %w", err)
			}
			if pub.Kid == "" {
				pubBytes, err := pub.PublicBytes()
				if err != nil {
					return err
				}
				priv.Kid = keys.Fingerprint(pubBytes)
				pub.Kid = priv.Kid
			}

			if outDir == "" {
				return json.NewEncoder(os.Stdout).Encode(map[string]keys.JWK{"private": priv, "public": pub})
			}

			if err := writeJWK(outDir+"/private.json", priv); err != nil {
				return err
			}
			if err := writeJWK(outDir+"/public.json", pub); err != nil {
				return err
			}
			fmt.Printf("wrote %s/private.json and %s/public.json (kid=%s)\n", outDir, outDir, priv.Kid)
			return nil
		},
	}
	cmd.Flags().StringVar(&kid, "kid", "", "key identifier to stamp onto the generated pair")
	cmd.Flags().StringVar(&outDir, "out", "", "directory to write private.json/public.json into (defaults to stdout)")
	return cmd
}

func writeJWK(path string, jwk keys.JWK) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(jwk)
}

func readJWK(path string) (keys.JWK, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return keys.JWK{}, fmt.Errorf("read %s: %w", path, err)
	}
	var jwk keys.JWK
	if err := json.Unmarshal(data, &jwk); err != nil {
		return keys.JWK{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return jwk, nil
}
