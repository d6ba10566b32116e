package upload

import (
	"bytes"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// File is an upload source. Open must return a fresh reader positioned at
// the start each time it is called: a retry re-transfers the file from
// scratch.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// NewFileFromPath builds a File from a path on disk. The content type is
// guessed from the extension.
func NewFileFromPath(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "[NewFileFromPath] stat file")
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &File{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// NewFileFromBytes builds an in-memory File, mainly for tests and generated
// content.
func NewFileFromBytes(name, contentType string, data []byte) *File {
	return &File{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}
