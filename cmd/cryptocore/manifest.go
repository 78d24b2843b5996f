package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/digitalcash/cryptocore"
)

// manifest lists the recipients of a seal operation:
//
//	recipients:
//	  - id: alice
//	    key: keys/alice.pub.pem
//	  - key: keys/bob.pub.pem   # id defaults to the key identifier
type manifest struct {
	Recipients []manifestEntry `yaml:"recipients"`
}

type manifestEntry struct {
	ID  string `yaml:"id"`
	Key string `yaml:"key"`
}

var errEmptyManifest = errors.New("manifest lists no recipients")

// loadManifest reads path and resolves every key relative to the manifest's
// directory.
func loadManifest(path string) (*cryptocore.RecipientList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if len(m.Recipients) == 0 {
		return nil, errEmptyManifest
	}

	dir := filepath.Dir(path)
	list := cryptocore.NewRecipientList()
	for i, e := range m.Recipients {
		if e.Key == "" {
			return nil, fmt.Errorf("recipient %d: key is required", i)
		}
		keyPath := e.Key
		if !filepath.IsAbs(keyPath) {
			keyPath = filepath.Join(dir, keyPath)
		}
		pub, err := readPublicKey(keyPath)
		if err != nil {
			return nil, fmt.Errorf("recipient %d: %w", i, err)
		}
		if e.ID == "" {
			err = list.AddKey(pub)
		} else {
			err = list.Add(e.ID, pub)
		}
		if err != nil {
			return nil, fmt.Errorf("recipient %d: %w", i, err)
		}
	}
	return list, nil
}

func readPublicKey(path string) (*cryptocore.PublicKey, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	return cryptocore.ParsePublicKeyPEM(blob)
}
