package clients

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage keeps reports on disk when no bucket is configured
type LocalStorage struct {
	BaseDir      string
	PublicPrefix string
}

// NewLocalStorage creates the storage; baseDir is created if missing
func NewLocalStorage(baseDir, publicPrefix string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./reports"
	}
	if publicPrefix == "" {
		publicPrefix = "/files"
	}

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure storage dir %q: %w", baseDir, err)
	}

	return &LocalStorage{BaseDir: baseDir, PublicPrefix: publicPrefix}, nil
}

// Store writes data under a collision-free name and returns that name and its relative URL
func (s *LocalStorage) Store(ctx context.Context, fileName string, data []byte) (string, string, error) {
	fileName = filepath.Base(fileName)

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return "", "", fmt.Errorf("failed to generate file name: %w", err)
	}
	final := fmt.Sprintf("%s_%s", hex.EncodeToString(randBytes), fileName)

	target := filepath.Join(s.BaseDir, final)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return "", "", fmt.Errorf("failed to finalize file: %w", err)
	}

	return final, s.URL(final), nil
}

// URL returns the public path of a stored file
func (s *LocalStorage) URL(fileName string) string {
	return "/" + strings.Trim(s.PublicPrefix, "/") + "/" + fileName
}
