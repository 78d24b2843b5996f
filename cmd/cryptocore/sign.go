package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/digitalcash/cryptocore"
)

func (a *app) signCmd() *cobra.Command {
	var (
		keyPath  string
		hashName string
		in, out  string
		pass     passphraseSource
	)
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign content and print the armored signature",
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := os.ReadFile(keyPath)
			if err != nil {
				return fmt.Errorf("read private key: %w", err)
			}
			content, err := a.readInput(in)
			if err != nil {
				return err
			}
			sig, err := a.provider.SignWithPEM(content, hashName, blob, pass.callback(a.getenv))
			if err != nil {
				return err
			}
			return a.writeOutput(out, []byte(sig.Armor()+"\n"), 0o644)
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", "", "Private key PEM (required)")
	cmd.Flags().StringVar(&hashName, "hash", cryptocore.DefaultHashAlgorithm,
		"Hash name: "+strings.Join(cryptocore.HashNames(), ", "))
	cmd.Flags().StringVar(&in, "in", "-", "Content file")
	cmd.Flags().StringVar(&out, "out", "-", "Signature file")
	_ = cmd.MarkFlagRequired("key")
	pass.register(cmd)
	return cmd
}

func (a *app) verifyCmd() *cobra.Command {
	var (
		certPath string
		hashName string
		sigPath  string
		in       string
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify an armored signature with a public key or certificate",
		RunE: func(cmd *cobra.Command, args []string) error {
			cert, err := os.ReadFile(certPath)
			if err != nil {
				return fmt.Errorf("read certificate: %w", err)
			}
			armored, err := os.ReadFile(sigPath)
			if err != nil {
				return fmt.Errorf("read signature: %w", err)
			}
			sig, err := cryptocore.ParseSignature(string(bytes.TrimSpace(armored)))
			if err != nil {
				return err
			}
			content, err := a.readInput(in)
			if err != nil {
				return err
			}

			err = a.provider.VerifyWithCertificate(content, hashName, cert, sig)
			if err != nil && !errors.Is(err, cryptocore.ErrSignatureInvalid) {
				return err
			}
			if perr := a.print(map[string]any{"valid": err == nil}, "valid"); perr != nil {
				return perr
			}
			return err
		},
	}
	cmd.Flags().StringVar(&certPath, "cert", "", "Public key or certificate PEM (required)")
	cmd.Flags().StringVar(&hashName, "hash", cryptocore.DefaultHashAlgorithm, "Hash name")
	cmd.Flags().StringVar(&sigPath, "sig", "", "Armored signature file (required)")
	cmd.Flags().StringVar(&in, "in", "-", "Content file")
	_ = cmd.MarkFlagRequired("cert")
	_ = cmd.MarkFlagRequired("sig")
	return cmd
}

func (a *app) deriveCmd() *cobra.Command {
	var (
		saltHex  string
		checkHex string
		iters    uint32
		pass     passphraseSource
	)
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive a symmetric key from a passphrase",
		Long: "Derive a symmetric key and its check-hash. With --check-hash the stored\n" +
			"value is verified; on mismatch the fresh check-hash is printed and the\n" +
			"command fails.",
		RunE: func(cmd *cobra.Command, args []string) error {
			salt, err := hex.DecodeString(saltHex)
			if err != nil || len(salt) == 0 {
				return fmt.Errorf("--salt must be non-empty hex")
			}
			checkHash, err := hex.DecodeString(checkHex)
			if err != nil {
				return fmt.Errorf("--check-hash must be hex: %w", err)
			}
			if iters == 0 {
				iters = a.provider.Config().Iterations()
			}
			passphrase, err := pass.secret(a.getenv)
			if err != nil {
				return err
			}
			if passphrase == nil {
				return fmt.Errorf("no passphrase: set --passphrase-file or $%s", pass.envVar)
			}
			defer passphrase.Destroy()

			key, derr := a.provider.DeriveKey(passphrase, salt, iters, &checkHash)
			if derr != nil && !errors.Is(derr, cryptocore.ErrCheckHashMismatch) {
				return derr
			}
			out := map[string]any{"check_hash": hex.EncodeToString(checkHash)}
			order := []string{"check_hash"}
			if key != nil {
				defer key.Destroy()
				out["key"] = hex.EncodeToString(key.Bytes())
				order = append(order, "key")
			}
			if err := a.print(out, order...); err != nil {
				return err
			}
			return derr
		},
	}
	cmd.Flags().StringVar(&saltHex, "salt", "", "Salt as hex (required)")
	cmd.Flags().StringVar(&checkHex, "check-hash", "", "Stored check-hash as hex")
	cmd.Flags().Uint32Var(&iters, "iterations", 0, "Iteration count (default: configured value)")
	_ = cmd.MarkFlagRequired("salt")
	pass.register(cmd)
	return cmd
}
