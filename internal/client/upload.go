package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// Form is a multipart body for uploads
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name  string
	value string
}

type formFile struct {
	field    string
	filename string
	content  io.Reader
	path     string
}

// NewForm creates an empty multipart form
func NewForm() *Form {
	return &Form{}
}

// AddField adds a text field; empty values are skipped
func (f *Form) AddField(name, value string) *Form {
	if value != "" {
		f.fields = append(f.fields, formField{name: name, value: value})
	}
	return f
}

// AddFile adds file content read from r
func (f *Form) AddFile(field, filename string, r io.Reader) *Form {
	f.files = append(f.files, formFile{field: field, filename: filename, content: r})
	return f
}

// AddFilePath adds a file from disk, opened when the form is encoded
func (f *Form) AddFilePath(field, path string) *Form {
	f.files = append(f.files, formFile{field: field, filename: filepath.Base(path), path: path})
	return f
}

// encode writes the form and returns the body with its multipart content type
func (f *Form) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", field.name, err)
		}
	}

	for _, file := range f.files {
		part, err := w.CreateFormFile(file.field, file.filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file %s: %w", file.filename, err)
		}

		content := file.content
		if file.path != "" {
			fh, err := os.Open(file.path)
			if err != nil {
				return nil, "", fmt.Errorf("failed to open %s: %w", file.path, err)
			}
			defer fh.Close()
			content = fh
		}
		if content == nil {
			continue
		}
		if _, err := io.Copy(part, content); err != nil {
			return nil, "", fmt.Errorf("failed to write form file %s: %w", file.filename, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}
