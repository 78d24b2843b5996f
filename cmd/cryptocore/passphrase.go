package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/digitalcash/cryptocore"
)

// defaultPassphraseEnv is read when no passphrase flag is given.
const defaultPassphraseEnv = "CRYPTOCORE_PASSPHRASE"

// passphraseSource resolves a passphrase from a file or an environment
// variable. Console prompting is not supported.
type passphraseSource struct {
	file   string
	envVar string
}

func (s *passphraseSource) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&s.file, "passphrase-file", "", "Read the passphrase from a file")
	flags.StringVar(&s.envVar, "passphrase-env", defaultPassphraseEnv, "Read the passphrase from this environment variable")
}

// secret returns the passphrase, or nil when none is configured.
func (s *passphraseSource) secret(getenv func(string) string) (*cryptocore.Secret, error) {
	if s.file != "" {
		b, err := os.ReadFile(s.file)
		if err != nil {
			return nil, fmt.Errorf("read passphrase file: %w", err)
		}
		defer clear(b)
		return cryptocore.NewPassword(bytes.TrimRight(b, "\r\n")), nil
	}
	if v := getenv(s.envVar); v != "" {
		return cryptocore.NewPassword([]byte(v)), nil
	}
	return nil, nil
}

// callback adapts the source to a password callback for encrypted keys.
func (s *passphraseSource) callback(getenv func(string) string) cryptocore.PasswordCallback {
	return func(prompt string) (*cryptocore.Secret, error) {
		pass, err := s.secret(getenv)
		if err != nil {
			return nil, err
		}
		if pass == nil {
			return nil, fmt.Errorf("%s: set --passphrase-file or $%s", prompt, s.envVar)
		}
		return pass, nil
	}
}
