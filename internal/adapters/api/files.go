package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"

	"tienda-console/internal/core/domain"
)

// UploadFile sends one file as multipart field "file"
func (c *Client) UploadFile(ctx context.Context, filename string, content io.Reader) (*domain.UploadedFile, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", path.Base(filename))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var out domain.UploadedFile
	r := request{
		method:      http.MethodPost,
		path:        "/api/files/upload",
		raw:         &buf,
		contentType: mw.FormDataContentType(),
		auth:        true,
		timeout:     c.uploadTimeout,
	}
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	if out.Path == "" {
		out.Path = out.URL
	}
	if out.Filename == "" && out.Path != "" {
		out.Filename = path.Base(out.Path)
	}
	return &out, nil
}

func (c *Client) DeleteFile(ctx context.Context, filename string) error {
	p := "/api/files/delete/" + url.PathEscape(path.Base(filename))
	return c.do(ctx, request{method: http.MethodDelete, path: p, auth: true}, nil)
}
