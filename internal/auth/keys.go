package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const pemTypeECPrivateKey = "EC PRIVATE KEY"

// LoadECDSAPrivateKey loads an ECDSA private key from a PEM file.
func LoadECDSAPrivateKey(keyPath string) (*ecdsa.PrivateKey, error) {
	// check if keyPath exists
	if _, err := os.Stat(keyPath); err != nil {
		return nil, fmt.Errorf("private key path does not exist: %w", err)
	}

	keyData, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	block, _ := pem.Decode(keyData)
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block")
	}

	privateKey, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ECDSA private key: %w", err)
	}

	return privateKey, nil
}

// LoadOrCreateECDSAPrivateKey loads the key at keyPath, generating and
// storing a new P-256 key (mode 0600) when the file does not exist yet.
func LoadOrCreateECDSAPrivateKey(keyPath string) (*ecdsa.PrivateKey, bool, error) {
	_, err := os.Stat(keyPath)
	if err == nil {
		key, err := LoadECDSAPrivateKey(keyPath)
		return key, false, err
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, false, fmt.Errorf("failed to stat private key: %w", err)
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate ECDSA key: %w", err)
	}

	if dir := filepath.Dir(keyPath); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, false, fmt.Errorf("failed to create key directory: %w", err)
		}
	}
	f, err := os.OpenFile(keyPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create key file: %w", err)
	}
	defer f.Close()

	if err := EncodeECDSAPrivateKeyToPEM(f, key); err != nil {
		return nil, false, err
	}
	return key, true, nil
}

// EncodeECDSAPrivateKeyToPEM writes key to out as an "EC PRIVATE KEY" PEM block.
func EncodeECDSAPrivateKeyToPEM(out io.Writer, key *ecdsa.PrivateKey) error {
	der, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return fmt.Errorf("failed to marshal ECDSA private key: %w", err)
	}
	block := &pem.Block{
		Type:  pemTypeECPrivateKey,
		Bytes: der,
	}
	if err := pem.Encode(out, block); err != nil {
		return fmt.Errorf("failed to encode PEM: %w", err)
	}
	return nil
}
