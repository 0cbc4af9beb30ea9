package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadECDSAPrivateKey(t *testing.T) {
	tests := []struct {
		name    string
		keyPath string
		wantErr bool
	}{
		{
			name:    "load valid key",
			keyPath: "test_valid_private.pem",
			wantErr: false,
		},
		{
			name:    "load invalid key",
			keyPath: "test_invalid_private.pem",
			wantErr: true,
		},
		{
			name:    "file does not exist",
			keyPath: "non_existent_key.pem",
			wantErr: true,
		},
		{
			name:    "empty key path",
			keyPath: "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadECDSAPrivateKey(tt.keyPath)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadECDSAPrivateKey() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != nil {
				checkECDSAPrivateKey(t, got)
			}
		})
	}
}

func checkECDSAPrivateKey(t *testing.T, key *ecdsa.PrivateKey) {
	if key == nil {
		t.Error("Expected non-nil key")
		return
	}
	if key.Curve != elliptic.P256() {
		t.Errorf("Expected P256 curve")
	}
	// Verify we can sign and verify with the key
	hash := []byte("test message")
	r, s, err := ecdsa.Sign(rand.Reader, key, hash)
	if err != nil {
		t.Errorf("Failed to sign with loaded key: %v", err)
	}
	if !ecdsa.Verify(&key.PublicKey, hash, r, s) {
		t.Errorf("Failed to verify signature with loaded key: %v", err)
	}
}

func TestLoadOrCreateECDSAPrivateKey(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "res", "key.pem")

	created, generated, err := LoadOrCreateECDSAPrivateKey(keyPath)
	if err != nil {
		t.Fatalf("LoadOrCreateECDSAPrivateKey() error = %v", err)
	}
	if !generated {
		t.Error("expected a new key to be generated")
	}
	checkECDSAPrivateKey(t, created)

	info, err := os.Stat(keyPath)
	if err != nil {
		t.Fatalf("key file not written: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("key file mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, generated, err := LoadOrCreateECDSAPrivateKey(keyPath)
	if err != nil {
		t.Fatalf("LoadOrCreateECDSAPrivateKey() second call error = %v", err)
	}
	if generated {
		t.Error("expected the existing key to be loaded")
	}
	if !loaded.Equal(created) {
		t.Error("loaded key differs from the generated one")
	}
}
