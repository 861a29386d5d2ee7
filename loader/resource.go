package loader

import (
	"bytes"
	"io"
	"os"

	cadimport "github.com/raw-bytes/cad-import"
)

// Resource is an abstract byte source a loader reads from.
type Resource interface {
	// Open returns a fresh reader over the resource content.
	Open() (io.ReadCloser, error)

	// MimeType returns the mime type of the resource.
	MimeType() string
}

// FileResource is a resource backed by a file on disk.
type FileResource struct {
	Path string
	Mime string
}

func (f *FileResource) Open() (io.ReadCloser, error) {
	r, err := os.Open(f.Path)
	if err != nil {
		return nil, cadimport.WrapError(cadimport.KindIO, err, "failed to open resource")
	}
	return r, nil
}

func (f *FileResource) MimeType() string { return f.Mime }

// MemoryResource is a resource backed by an in-memory buffer.
type MemoryResource struct {
	Data []byte
	Mime string
}

func (m *MemoryResource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.Data)), nil
}

func (m *MemoryResource) MimeType() string { return m.Mime }
