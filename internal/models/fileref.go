package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedFileRef is returned for document references that are not exactly "bucket:path".
var ErrMalformedFileRef = errors.New("malformed file reference")

// FileRef addresses an object in storage.
type FileRef struct {
	Bucket string
	Path   string
}

// ParseFileRef splits a stored "bucket:path" value. Anything other than
// exactly two non-empty parts is rejected.
func ParseFileRef(s string) (FileRef, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return FileRef{}, fmt.Errorf("%w: %q", ErrMalformedFileRef, s)
	}
	return FileRef{Bucket: parts[0], Path: parts[1]}, nil
}

func (r FileRef) String() string {
	return r.Bucket + ":" + r.Path
}

// FormatSize renders a byte count the way the documents tab shows it.
func FormatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	if bytes >= MB {
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	}
	return fmt.Sprintf("%d KB", (bytes+KB/2)/KB)
}
