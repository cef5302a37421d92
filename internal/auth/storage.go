package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"

	"github.com/99designs/keyring"
	"github.com/testagent/cli/internal/config"
)

const keyringService = "testagent-cli"

// getKeyringConfig returns a keyring configuration that works with CGO_ENABLED=0
func getKeyringConfig() keyring.Config {
	// Create a deterministic password based on machine ID and home directory
	// This allows the file backend to work without prompting for a password
	machineID := getMachineID()
	password := sha256.Sum256([]byte(machineID + os.Getenv("HOME")))

	return keyring.Config{
		ServiceName: keyringService,
		// When CGO_ENABLED=0, prefer FileBackend as it doesn't require C libraries
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,      // macOS (requires CGO)
			keyring.SecretServiceBackend, // Linux (requires CGO)
			keyring.WinCredBackend,       // Windows
			keyring.FileBackend,          // Fallback for all platforms
		},
		KeychainTrustApplication: true,
		FileDir:                  config.GetSessionDir(),
		// Provide a password function to avoid prompting
		FilePasswordFunc: func(prompt string) (string, error) {
			return hex.EncodeToString(password[:]), nil
		},
	}
}

// getMachineID returns a unique identifier for the current machine
func getMachineID() string {
	paths := []string{
		"/etc/machine-id",
		"/var/lib/dbus/machine-id",
	}

	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			return string(data)
		}
	}

	// Fallback to hostname
	if hostname, err := os.Hostname(); err == nil {
		return hostname
	}

	return "default-machine-id"
}

// KeyringStore persists session values in the OS credential manager
type KeyringStore struct {
	ring keyring.Keyring
}

// OpenKeyringStore opens the platform keyring
func OpenKeyringStore() (*KeyringStore, error) {
	ring, err := keyring.Open(getKeyringConfig())
	if err != nil {
		return nil, err
	}
	return NewKeyringStore(ring), nil
}

// NewKeyringStore wraps an already opened keyring
func NewKeyringStore(ring keyring.Keyring) *KeyringStore {
	return &KeyringStore{ring: ring}
}

func (s *KeyringStore) Get(key string) (string, error) {
	item, err := s.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(item.Data), nil
}

func (s *KeyringStore) Set(key, value string) error {
	return s.ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: keyringService + " " + key,
	})
}

// Remove deletes key; removing a missing key is not an error
func (s *KeyringStore) Remove(key string) error {
	err := s.ring.Remove(key)
	if errors.Is(err, keyring.ErrKeyNotFound) || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// OpenStore returns the Store selected by the session backend name
func OpenStore(backend string) (Store, error) {
	if backend == "memory" {
		return NewMemoryStore(), nil
	}
	return OpenKeyringStore()
}
