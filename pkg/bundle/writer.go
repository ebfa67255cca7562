package bundle

import (
	"fmt"
	"io"
	"os"
)

// chunkSize bounds memory use when streaming a path-supplied asset to the
// output (spec.md §4.3).
const chunkSize = 64 * 1024

// MediaSource is the two-variant tagged value an asset's content can come
// from: bytes already in memory, or a path to a file on disk. Exactly one
// of the two should be set; callers never need to branch on which variant
// they hold — WriteAsset handles both uniformly (spec.md §9).
type MediaSource struct {
	Data []byte
	Path string
}

// Asset is a uniquely identified binary blob, either tutorial media or UI
// button chrome, per spec.md §3.
type Asset struct {
	ID       string
	Name     string
	MimeType string
	Source   MediaSource
}

// WriteAsset appends one asset's bytes to w and returns the number of
// bytes written. w is never sought — callers maintain their own running
// cumulative offset to fill manifest offset fields (spec.md §4.3).
func WriteAsset(w io.Writer, a Asset) (int64, error) {
	if a.Source.Path != "" {
		return writeFromPath(w, a.Source.Path)
	}

	n, err := w.Write(a.Source.Data)
	if err != nil {
		return int64(n), fmt.Errorf("write asset %q: %w", a.Name, err)
	}
	return int64(n), nil
}

func writeFromPath(w io.Writer, path string) (int64, error) {
	src, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("write asset from %q: %w", path, err)
	}
	defer src.Close()

	// The wrappers hide ReaderFrom/WriterTo so io.CopyBuffer really copies
	// through buf instead of bypassing it.
	buf := make([]byte, chunkSize)
	n, err := io.CopyBuffer(struct{ io.Writer }{w}, struct{ io.Reader }{src}, buf)
	if err != nil {
		return n, fmt.Errorf("write asset from %q: %w", path, err)
	}
	return n, nil
}
