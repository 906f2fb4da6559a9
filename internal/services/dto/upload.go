package dto

import (
	"bytes"
	"io"
	"mime/multipart"
)

// FileUpload - an uploaded file not yet written to storage
type FileUpload struct {
	Filename    string
	Size        int64
	ContentType string
	open        func() (io.ReadCloser, error)
}

func (f *FileUpload) Open() (io.ReadCloser, error) {
	return f.open()
}

// FromMultipart wraps a multipart file header; nil in, nil out
func FromMultipart(fh *multipart.FileHeader) *FileUpload {
	if fh == nil {
		return nil
	}
	return &FileUpload{
		Filename:    fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		open: func() (io.ReadCloser, error) {
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	}
}

// NewFileUpload builds an upload from memory
func NewFileUpload(filename, contentType string, content []byte) *FileUpload {
	return &FileUpload{
		Filename:    filename,
		Size:        int64(len(content)),
		ContentType: contentType,
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
}
