// Package upload turns files on disk into the in-memory screenshot the
// controller works with.
package upload

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxBytes mirrors the detection service's request cap.
const DefaultMaxBytes int64 = 10 << 20

var (
	// ErrNotImage is returned by callers that refuse non-image input loudly.
	ErrNotImage = errors.New("file is not an image")
	// ErrTooLarge is returned when a file exceeds the upload cap.
	ErrTooLarge = errors.New("file exceeds upload limit")
)

// SelectedFile is a screenshot picked by the user.
type SelectedFile struct {
	Name      string
	MediaType string
	Data      []byte
}

// IsImage reports whether the declared media type is an image type.
func (f SelectedFile) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(f.MediaType), "image/")
}

// Size returns the payload length in bytes.
func (f SelectedFile) Size() int { return len(f.Data) }

// Open reads path into a SelectedFile. maxBytes <= 0 uses DefaultMaxBytes.
func Open(path string, maxBytes int64) (SelectedFile, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	info, err := os.Stat(path)
	if err != nil {
		return SelectedFile{}, err
	}
	if info.IsDir() {
		return SelectedFile{}, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > maxBytes {
		return SelectedFile{}, fmt.Errorf("%s (%d bytes): %w", path, info.Size(), ErrTooLarge)
	}
	// #nosec G304 - the path is chosen by the user on purpose
	data, err := os.ReadFile(path)
	if err != nil {
		return SelectedFile{}, fmt.Errorf("read %s: %w", path, err)
	}
	name := filepath.Base(path)
	return SelectedFile{
		Name:      name,
		MediaType: DeclaredMediaType(name, data),
		Data:      data,
	}, nil
}

// DeclaredMediaType names the media type of a file the way a browser would
// declare it: from the extension first, falling back to content sniffing
// when the extension is unknown.
func DeclaredMediaType(name string, data []byte) string {
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		return baseType(byExt)
	}
	if len(data) == 0 {
		return ""
	}
	return baseType(mimetype.Detect(data).String())
}

func baseType(v string) string {
	mediaType, _, err := mime.ParseMediaType(v)
	if err != nil {
		return strings.TrimSpace(v)
	}
	return mediaType
}
