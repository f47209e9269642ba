package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// GCSStore guarda archivos en un bucket de Google Cloud Storage.
type GCSStore struct {
	client *gcs.Client
	bucket string
	now    func() time.Time
}

// NewGCSStore crea el cliente. Sin credentialsFile usa las credenciales por defecto (ADC).
func NewGCSStore(ctx context.Context, bucket, credentialsFile string) (*GCSStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("crear cliente GCS: %w", err)
	}
	if _, err := client.Bucket(bucket).Attrs(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("bucket %q no encontrado o sin acceso: %w", bucket, err)
	}
	return &GCSStore{client: client, bucket: bucket, now: time.Now}, nil
}

// Store sube el objeto y devuelve "gs://<bucket>/<objeto>".
func (s *GCSStore) Store(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	const op = "storage.GCSStore"
	contentType, body, err := sniff(op, contentType, r)
	if err != nil {
		return "", err
	}
	key := objectName(name, s.now().UTC())

	wc := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	wc.ContentType = contentType
	wc.Metadata = map[string]string{"original-name": name}
	n, err := io.Copy(wc, body)
	if err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("%w: subir %s: %w", domain.ErrStorageFailure, key, err)
	}
	if n > MaxFileSize {
		// Cerrar confirma el objeto; se elimina enseguida.
		_ = wc.Close()
		_ = s.client.Bucket(s.bucket).Object(key).Delete(ctx)
		return "", domain.Validation(op, "archivo demasiado grande")
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("%w: cerrar %s: %w", domain.ErrStorageFailure, key, err)
	}
	return fmt.Sprintf("gs://%s/%s", s.bucket, key), nil
}

// Close libera el cliente.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
