package bundle

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned when a region expected to hold UTF-8 text
// (the project document) does not decode as valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid utf-8")

// Reader serves random-access reads of a packed image's payload: the
// project document, individual assets by id, and the icon. Reader itself
// holds only a path and the already-parsed manifest; every read opens its
// own file handle, so a Reader is safe to use concurrently from multiple
// goroutines (spec.md §5).
type Reader struct {
	path     string
	embedded bool
	manifest *Manifest
}

// Open reads and validates the footer of the file at path and, if present,
// parses the manifest it locates. A missing or invalid footer is not an
// error here — it simply means the image carries no embedded payload, and
// Info will report that.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %q: %w", path, err)
	}
	defer f.Close()

	footer, ok, err := locateFooter(f)
	if err != nil {
		return nil, fmt.Errorf("open image %q: %w", path, err)
	}
	if !ok {
		return &Reader{path: path}, nil
	}

	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("open image %q: seek end: %w", path, err)
	}
	manifestStart := size - int64(FooterSize) - int64(footer.ManifestSize)
	if manifestStart < 0 {
		return nil, fmt.Errorf("open image %q: manifest size %d exceeds file size", path, footer.ManifestSize)
	}

	buf := make([]byte, footer.ManifestSize)
	if _, err := f.ReadAt(buf, manifestStart); err != nil {
		return nil, fmt.Errorf("open image %q: read manifest: %w", path, err)
	}

	manifest := &Manifest{}
	if err := manifest.UnmarshalBinary(buf); err != nil {
		return nil, fmt.Errorf("open image %q: %w", path, err)
	}

	return &Reader{path: path, embedded: true, manifest: manifest}, nil
}

// Info reports whether the image carries an embedded payload and, if so,
// the parsed manifest. It never fails for an absent footer.
func (r *Reader) Info() (hasEmbedded bool, manifest *Manifest) {
	return r.embedded, r.manifest
}

// ReadProjectDocument returns the project document as a UTF-8 string.
func (r *Reader) ReadProjectDocument() (string, error) {
	if !r.embedded {
		return "", ErrNoEmbeddedData
	}
	data, err := r.readRange(r.manifest.ProjectJSONOffset, r.manifest.ProjectJSONSize)
	if err != nil {
		return "", fmt.Errorf("read project document: %w", err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("read project document: %w", ErrInvalidUTF8)
	}
	return string(data), nil
}

// ReadAsset returns the raw bytes of the media or button asset identified
// by id, searching media first, then buttons (spec.md §4.4).
func (r *Reader) ReadAsset(id string) ([]byte, error) {
	if !r.embedded {
		return nil, ErrNoEmbeddedData
	}
	entry, err := r.manifest.findEntry(id)
	if err != nil {
		return nil, err
	}
	data, err := r.readRange(entry.Offset, entry.Size)
	if err != nil {
		return nil, fmt.Errorf("read asset %q: %w", id, err)
	}
	return data, nil
}

// ReadIcon returns the embedded icon bytes, if any. A missing icon, or a
// missing payload entirely, is reported by ok=false with no error — only
// a malformed embedding (offset/size present but unreadable) is an error.
func (r *Reader) ReadIcon() (data []byte, ok bool, err error) {
	if !r.embedded || !r.manifest.HasIcon() {
		return nil, false, nil
	}
	data, err = r.readRange(*r.manifest.AppIconOffset, *r.manifest.AppIconSize)
	if err != nil {
		return nil, false, fmt.Errorf("read icon: %w", err)
	}
	return data, true, nil
}

func (r *Reader) readRange(offset, size uint64) ([]byte, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open image %q: %w", r.path, err)
	}
	defer f.Close()

	buf := make([]byte, size)
	if _, err := f.ReadAt(buf, int64(offset)); err != nil {
		return nil, fmt.Errorf("read image %q at %d: %w", r.path, offset, err)
	}
	return buf, nil
}
