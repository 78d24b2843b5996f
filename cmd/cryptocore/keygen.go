package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/digitalcash/cryptocore"
)

func (a *app) keygenCmd() *cobra.Command {
	var (
		alg     string
		outBase string
		pass    passphraseSource
	)
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a key pair",
		Long: "Generate a key pair and write <out>.pub.pem and <out>.key.pem.\n" +
			"The private key is encrypted when a passphrase is available.",
		RunE: func(cmd *cobra.Command, args []string) error {
			algorithm, err := cryptocore.ParseKeyAlgorithm(alg)
			if err != nil {
				return err
			}
			key, err := a.provider.GenerateKey(algorithm)
			if err != nil {
				return err
			}
			defer key.Destroy()

			pubPEM, err := cryptocore.MarshalPublicKeyPEM(key.Public())
			if err != nil {
				return err
			}

			passphrase, err := pass.secret(a.getenv)
			if err != nil {
				return err
			}
			var keyPEM []byte
			if passphrase != nil {
				defer passphrase.Destroy()
				keyPEM, err = a.provider.ProtectPrivateKey(key, passphrase)
			} else {
				keyPEM, err = cryptocore.MarshalPrivateKeyPEM(key)
			}
			if err != nil {
				return err
			}

			if err := os.WriteFile(outBase+".pub.pem", pubPEM, 0o644); err != nil {
				return fmt.Errorf("write public key: %w", err)
			}
			if err := os.WriteFile(outBase+".key.pem", keyPEM, 0o600); err != nil {
				return fmt.Errorf("write private key: %w", err)
			}

			return a.print(map[string]any{
				"algorithm": algorithm.String(),
				"id":        key.ID().String(),
				"public":    outBase + ".pub.pem",
				"private":   outBase + ".key.pem",
				"encrypted": passphrase != nil,
			}, "algorithm", "id", "public", "private", "encrypted")
		},
	}
	cmd.Flags().StringVar(&alg, "alg", "x25519", "Key algorithm: rsa, x25519, ml-kem-768, ed25519, ml-dsa-65")
	cmd.Flags().StringVar(&outBase, "out", "", "Output path prefix (required)")
	_ = cmd.MarkFlagRequired("out")
	pass.register(cmd)
	return cmd
}

func (a *app) idCmd() *cobra.Command {
	var decode bool
	cmd := &cobra.Command{
		Use:   "id <public-key.pem | encoded-id>",
		Short: "Print the identifier of a public key, or decode an identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if decode {
				raw := a.provider.DecodeID(args[0])
				if len(raw) == 0 {
					return fmt.Errorf("invalid identifier %q", args[0])
				}
				return a.print(map[string]any{"hex": fmt.Sprintf("%x", raw)}, "hex")
			}
			pub, err := readPublicKey(args[0])
			if err != nil {
				return err
			}
			return a.print(map[string]any{
				"algorithm": pub.Algorithm().String(),
				"id":        pub.ID().String(),
			}, "algorithm", "id")
		},
	}
	cmd.Flags().BoolVar(&decode, "decode", false, "Decode an encoded identifier to hex")
	return cmd
}
