package services

import (
	"context"
	"io"
	"path"
	"strings"

	"tienda-console/internal/core/domain"
	"tienda-console/internal/pkg/imageurl"

	"github.com/sirupsen/logrus"
)

// FileAPI is the upload surface of the backend
type FileAPI interface {
	UploadFile(ctx context.Context, filename string, content io.Reader) (*domain.UploadedFile, error)
	DeleteFile(ctx context.Context, filename string) error
}

// allowedImageExt lists the extensions accepted for product images
var allowedImageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// FileService uploads product images
type FileService struct {
	api    FileAPI
	images imageurl.Resolver
	log    logrus.FieldLogger
}

// NewFileService creates a new file service
func NewFileService(api FileAPI, images imageurl.Resolver, log logrus.FieldLogger) *FileService {
	return &FileService{api: api, images: images, log: log.WithField("component", "files")}
}

// Upload stores an image and returns it with a renderable URL
func (s *FileService) Upload(ctx context.Context, filename string, content io.Reader) (*domain.UploadedFile, error) {
	ext := strings.ToLower(path.Ext(filename))
	if !allowedImageExt[ext] {
		return nil, domain.NewValidationError("file", "Solo se permiten imágenes JPG, PNG, GIF o WEBP")
	}

	f, err := s.api.UploadFile(ctx, filename, content)
	if err != nil {
		return nil, err
	}
	out := *f
	if out.URL == "" {
		out.URL = out.Path
	}
	out.URL = s.images.Resolve(out.URL)
	s.log.WithField("file", out.Filename).Info("📁 file uploaded")
	return &out, nil
}

// Delete removes an uploaded image; confirmed must be true
func (s *FileService) Delete(ctx context.Context, filename string, confirmed bool) error {
	if !confirmed {
		return domain.ErrConfirmationRequired
	}
	if strings.TrimSpace(filename) == "" {
		return domain.NewValidationError("filename", "Indica el archivo a eliminar")
	}
	return s.api.DeleteFile(ctx, filename)
}
