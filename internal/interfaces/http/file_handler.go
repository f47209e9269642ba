package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/stock"
)

// FileHandler carga de fotos de recepción y documentos de soporte.
type FileHandler struct {
	files stock.FileStore
}

// NewFileHandler construye el handler.
func NewFileHandler(files stock.FileStore) *FileHandler {
	return &FileHandler{files: files}
}

// Upload godoc
// @Summary      Subir archivo
// @Description  Guarda una imagen o PDF y devuelve la referencia para receipt_image_ref / supporting_doc_ref.
// @Tags         files
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "jpeg, png, webp o pdf (máx. 10MB)"
// @Success      201   {object}  dto.FileUploadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/files [post]
func (h *FileHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "MISSING_FILE", "campo file requerido")
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "INVALID_FILE", "no se pudo leer el archivo")
	}
	defer f.Close()

	ref, err := h.files.Store(c.Context(), fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FileUploadResponse{Ref: ref})
}
