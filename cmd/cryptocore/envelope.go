package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/digitalcash/cryptocore"
	"github.com/digitalcash/cryptocore/internal/bytebuf"
)

func (a *app) sealCmd() *cobra.Command {
	var (
		manifestPath string
		in, out      string
		armor        bool
	)
	cmd := &cobra.Command{
		Use:   "seal",
		Short: "Encrypt a payload for the recipients in a manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			recipients, err := loadManifest(manifestPath)
			if err != nil {
				return err
			}
			payload, err := a.readInput(in)
			if err != nil {
				return err
			}
			sealed, err := a.provider.Seal(recipients, payload)
			if err != nil {
				return err
			}
			data := sealed.Bytes()
			if armor {
				data = []byte(a.provider.Base64Encode(data, true))
			}
			return a.writeOutput(out, data, 0o644)
		},
	}
	cmd.Flags().StringVar(&manifestPath, "recipients", "", "YAML recipient manifest (required)")
	cmd.Flags().StringVar(&in, "in", "-", "Payload file")
	cmd.Flags().StringVar(&out, "out", "-", "Envelope file")
	cmd.Flags().BoolVar(&armor, "armor", false, "Write the envelope as base64 text")
	_ = cmd.MarkFlagRequired("recipients")
	return cmd
}

func (a *app) openCmd() *cobra.Command {
	var (
		keyPath string
		id      string
		in, out string
		armor   bool
		pass    passphraseSource
	)
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Decrypt an envelope with a private key",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := a.loadPrivateKey(keyPath, &pass)
			if err != nil {
				return err
			}
			if id == "" {
				id = key.ID().String()
			}

			data, err := a.readInput(in)
			if err != nil {
				return err
			}
			if armor {
				if data, err = a.provider.Base64Decode(string(data), true); err != nil {
					return err
				}
			}

			plain, err := a.provider.Open(bytebuf.FromBytes(data), key, id)
			if err != nil {
				return err
			}
			return a.writeOutput(out, plain, 0o600)
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", "", "Private key PEM (required)")
	cmd.Flags().StringVar(&id, "id", "", "Recipient identifier (default: the key identifier)")
	cmd.Flags().StringVar(&in, "in", "-", "Envelope file")
	cmd.Flags().StringVar(&out, "out", "-", "Payload file")
	cmd.Flags().BoolVar(&armor, "armor", false, "Read the envelope as base64 text")
	_ = cmd.MarkFlagRequired("key")
	pass.register(cmd)
	return cmd
}

func (a *app) loadPrivateKey(path string, pass *passphraseSource) (*cryptocore.PrivateKey, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	return a.provider.LoadPrivateKey(blob, pass.callback(a.getenv))
}
