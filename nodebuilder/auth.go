package nodebuilder

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// SecretName is the name of the file keeping the key RPC auth tokens are signed with.
	SecretName = "jwt-secret"
	secretSize = 32
)

// secret returns the node's JWT secret kept under the given keys directory, generating and saving
// a new one if it does not exist.
func secret(keysDir string) ([]byte, error) {
	path := filepath.Join(keysDir, SecretName)
	key, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(key) != secretSize {
			return nil, fmt.Errorf("node: corrupted JWT secret: %d bytes", len(key))
		}
		return key, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("node: reading JWT secret: %w", err)
	}

	key, err = io.ReadAll(io.LimitReader(rand.Reader, secretSize))
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, fmt.Errorf("node: saving JWT secret: %w", err)
	}
	log.Infow("generated JWT secret", "path", path)
	return key, nil
}

// Secret returns the JWT secret of the Store under the given 'path'. It does not take the Store
// lock, so tokens can be issued for a running Node.
func Secret(path string) ([]byte, error) {
	path, err := storePath(path)
	if err != nil {
		return nil, err
	}
	if !IsInit(path) {
		return nil, ErrNotInited
	}
	return secret(keysPath(path))
}
