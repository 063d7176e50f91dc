package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"tienda-console/internal/core/domain"
	"tienda-console/internal/pkg/imageurl"
	"tienda-console/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFileAPI struct {
	uploaded []string
	deleted  []string
	reply    domain.UploadedFile
}

func (f *fakeFileAPI) UploadFile(_ context.Context, filename string, content io.Reader) (*domain.UploadedFile, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	f.uploaded = append(f.uploaded, filename+":"+string(data))
	out := f.reply
	return &out, nil
}

func (f *fakeFileAPI) DeleteFile(_ context.Context, filename string) error {
	f.deleted = append(f.deleted, filename)
	return nil
}

func TestFileService_Upload(t *testing.T) {
	fake := &fakeFileAPI{reply: domain.UploadedFile{Filename: "a.png", Path: "uploads/a.png"}}
	svc := NewFileService(fake, imageurl.Resolver{BaseURL: "https://cdn.example.com"}, logger.Discard())

	f, err := svc.Upload(context.Background(), "A.PNG", strings.NewReader("img"))
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/uploads/a.png", f.URL)
	assert.Equal(t, []string{"A.PNG:img"}, fake.uploaded)
}

func TestFileService_UploadRejectsNonImages(t *testing.T) {
	fake := &fakeFileAPI{}
	svc := NewFileService(fake, imageurl.Resolver{}, logger.Discard())

	_, err := svc.Upload(context.Background(), "script.sh", strings.NewReader("#!"))

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "file")
	assert.Empty(t, fake.uploaded, "no network call for a rejected file")
}

func TestFileService_DeleteNeedsConfirmation(t *testing.T) {
	fake := &fakeFileAPI{}
	svc := NewFileService(fake, imageurl.Resolver{}, logger.Discard())
	ctx := context.Background()

	assert.ErrorIs(t, svc.Delete(ctx, "a.png", false), domain.ErrConfirmationRequired)
	assert.Empty(t, fake.deleted)

	require.NoError(t, svc.Delete(ctx, "a.png", true))
	assert.Equal(t, []string{"a.png"}, fake.deleted)
}
