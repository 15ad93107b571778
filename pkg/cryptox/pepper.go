package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Configuration for Argon2id hashing.
const (
	memory      = 19 * 1024 // Memory usage in KiB (19 MiB)
	iterations  = 2         // Iteration count
	parallelism = 1         // Number of threads
	keyLength   = 32        // Length of the generated hash
	saltLength  = 16        // Length of the salt
)

var (
	pepperMu sync.RWMutex
	pepper   string
)

// GetPepper returns the server-side pepper mixed into every Argon2id hash.
// It is empty until LoadPepper or SetPepper is called.
func GetPepper() string {
	pepperMu.RLock()
	defer pepperMu.RUnlock()
	return pepper
}

// SetPepper replaces the pepper directly. Intended for tests.
func SetPepper(value string) {
	pepperMu.Lock()
	pepper = value
	pepperMu.Unlock()
}

// LoadPepper reads the pepper from file, generating and persisting a new one
// when the file does not exist yet. An empty path disables the pepper.
func LoadPepper(file string) error {
	if file == "" {
		SetPepper("")
		return nil
	}

	value, err := loadOrGeneratePepper(filepath.Clean(file))
	if err != nil {
		return err
	}
	SetPepper(value)
	return nil
}

func loadOrGeneratePepper(pepperFile string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(pepperFile), 0750); err != nil {
		return "", err
	}

	data, err := os.ReadFile(pepperFile) // #nosec G304 - path comes from operator config
	if err == nil {
		return strings.TrimSpace(string(data)), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	pepperBytes := make([]byte, keyLength)
	if _, err := rand.Read(pepperBytes); err != nil {
		return "", err
	}
	value := base64.RawURLEncoding.EncodeToString(pepperBytes)

	if err := os.WriteFile(pepperFile, []byte(value), 0600); err != nil {
		return "", err
	}
	return value, nil
}
