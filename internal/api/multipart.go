package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// multipartForm buffers a multipart body so it can be sent with a length
type multipartForm struct {
	body   bytes.Buffer
	writer *multipart.Writer
}

func newMultipartForm() *multipartForm {
	f := &multipartForm{}
	f.writer = multipart.NewWriter(&f.body)
	return f
}

// addFile streams the file at path into field
func (f *multipartForm) addFile(field, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer src.Close()

	part, err := f.writer.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}

func (f *multipartForm) addField(name, value string) error {
	return f.writer.WriteField(name, value)
}

// close finalizes the body; it must run before sending
func (f *multipartForm) close() error {
	return f.writer.Close()
}

func (f *multipartForm) contentType() string {
	return f.writer.FormDataContentType()
}
