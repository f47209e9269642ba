package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// LocalStore guarda archivos en un directorio local (desarrollo y despliegues de un solo nodo).
type LocalStore struct {
	dir string
	now func() time.Time
}

// NewLocalStore crea el directorio base si no existe.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de archivos: %w", err)
	}
	return &LocalStore{dir: dir, now: time.Now}, nil
}

// Store escribe el archivo y devuelve "local://<ruta relativa>".
func (s *LocalStore) Store(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	const op = "storage.LocalStore"
	_, body, err := sniff(op, contentType, r)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := objectName(name, s.now().UTC())
	full := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
	}
	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
	}
	n, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
	}
	if n > MaxFileSize {
		_ = os.Remove(full)
		return "", domain.Validation(op, "archivo demasiado grande")
	}
	return "local://" + key, nil
}
