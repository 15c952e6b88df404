package cryptox

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LoadOrCreateSecret returns the secret stored at path. When the file does
// not exist a random secret of size bytes is generated, written with 0600
// permissions and returned. The value is base64url text.
func LoadOrCreateSecret(path string, size int) (string, error) {
	if path == "" {
		return "", errors.New("cryptox: secret path is empty")
	}
	path = filepath.Clean(path)

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		secret := strings.TrimSpace(string(b))
		if secret == "" {
			return "", fmt.Errorf("cryptox: secret file %s is empty", path)
		}
		return secret, nil
	case !errors.Is(err, fs.ErrNotExist):
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", err
	}

	secret, err := GenerateToken(size)
	if err != nil {
		return "", err
	}

	// O_EXCL: if another process created the file first, read theirs.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return LoadOrCreateSecret(path, size)
	}
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.WriteString(secret); err != nil {
		return "", err
	}
	return secret, nil
}

// DecodeSecret turns base64url text from LoadOrCreateSecret back into raw
// bytes. Values that are not base64url are used verbatim.
func DecodeSecret(secret string) []byte {
	if b, err := base64.RawURLEncoding.DecodeString(secret); err == nil {
		return b
	}
	return []byte(secret)
}
