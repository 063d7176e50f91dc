package handlers

import (
	"tienda-console/internal/core/services"
	"tienda-console/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// FileHandler handles product image uploads
type FileHandler struct {
	files *services.FileService
}

// NewFileHandler creates a new file handler
func NewFileHandler(files *services.FileService) *FileHandler {
	return &FileHandler{files: files}
}

// Upload forwards an image to the backend
// @Summary Upload image
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image"
// @Success 201 {object} response.Response{data=domain.UploadedFile}
// @Failure 422 {object} response.Response
// @Router /admin/archivos [post]
func (h *FileHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return response.ValidationFailed(c, map[string]string{"file": "Selecciona una imagen"})
	}

	f, err := fh.Open()
	if err != nil {
		return response.BadRequest(c, "No se pudo leer el archivo")
	}
	defer f.Close()

	uploaded, err := h.files.Upload(c.UserContext(), fh.Filename, f)
	if err != nil {
		return response.FromError(c, err, "No se pudo subir la imagen")
	}
	return response.Created(c, "Imagen subida", uploaded)
}

// Delete removes an uploaded image; requires ?confirmar=true
// @Summary Delete image
// @Tags Admin
// @Produce json
// @Param filename path string true "File name"
// @Param confirmar query bool true "Confirmation"
// @Success 200 {object} response.Response
// @Router /admin/archivos/{filename} [delete]
func (h *FileHandler) Delete(c *fiber.Ctx) error {
	if err := h.files.Delete(c.UserContext(), c.Params("filename"), confirmed(c)); err != nil {
		return response.FromError(c, err, "No se pudo eliminar la imagen")
	}
	return response.Success(c, "Imagen eliminada", nil)
}
