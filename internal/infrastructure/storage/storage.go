// Package storage implementa stock.FileStore: fotos de recepción y documentos de soporte.
// El ledger solo guarda la referencia devuelta; nunca lee el contenido.
package storage

import (
	"bufio"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// MaxFileSize tamaño máximo aceptado por archivo.
const MaxFileSize = 10 << 20

var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// objectName clave única bajo receipts/AAAA/MM/ conservando la extensión original.
func objectName(name string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(name))
	if len(ext) > 8 {
		ext = ""
	}
	return path.Join("receipts", now.Format("2006"), now.Format("01"), uuid.New().String()+ext)
}

// sniff detecta el content type si no viene informado y valida que sea permitido.
// Devuelve un reader que incluye los bytes ya leídos.
func sniff(op, contentType string, r io.Reader) (string, io.Reader, error) {
	br := bufio.NewReaderSize(r, 512)
	if ct := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]); ct == "" || ct == "application/octet-stream" {
		head, _ := br.Peek(512)
		contentType = http.DetectContentType(head)
	}
	contentType = strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	if !allowedTypes[contentType] {
		return "", nil, domain.Validation(op, "tipo de archivo no permitido: "+contentType)
	}
	return contentType, io.LimitReader(br, MaxFileSize+1), nil
}
