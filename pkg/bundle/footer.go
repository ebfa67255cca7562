package bundle

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Footer is the fixed 17-byte trailing block that lets a running image
// locate its own appended payload: a manifest size word followed by Magic.
type Footer struct {
	ManifestSize uint64
}

// MarshalBinary encodes the footer: 8-byte little-endian manifest size,
// then the ASCII magic.
func (f Footer) MarshalBinary() ([]byte, error) {
	buf := make([]byte, FooterSize)
	binary.LittleEndian.PutUint64(buf[:8], f.ManifestSize)
	copy(buf[8:], Magic)
	return buf, nil
}

// UnmarshalBinary decodes a footer from exactly FooterSize bytes and
// validates the magic.
func (f *Footer) UnmarshalBinary(data []byte) error {
	if len(data) != FooterSize {
		return fmt.Errorf("decode footer: expected %d bytes, got %d", FooterSize, len(data))
	}
	if string(data[8:]) != Magic {
		return fmt.Errorf("decode footer: magic mismatch")
	}
	f.ManifestSize = binary.LittleEndian.Uint64(data[:8])
	return nil
}

// locateFooter seeks to the trailing FooterSize bytes of r, reads and
// validates the magic, and returns the decoded footer. If the file is
// shorter than FooterSize bytes, or the magic does not match, it returns
// ok=false and a nil error: absence of the footer is not itself a failure,
// it simply means the image carries no embedded payload.
func locateFooter(r io.ReadSeeker) (footer Footer, ok bool, err error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return Footer{}, false, fmt.Errorf("locate footer: seek end: %w", err)
	}
	if size < int64(FooterSize) {
		return Footer{}, false, nil
	}

	buf := make([]byte, FooterSize)
	if _, err := r.Seek(-int64(FooterSize), io.SeekEnd); err != nil {
		return Footer{}, false, fmt.Errorf("locate footer: seek footer: %w", err)
	}
	if _, err := io.ReadFull(r, buf); err != nil {
		return Footer{}, false, fmt.Errorf("locate footer: read footer: %w", err)
	}

	if string(buf[8:]) != Magic {
		return Footer{}, false, nil
	}

	footer.ManifestSize = binary.LittleEndian.Uint64(buf[:8])
	return footer, true, nil
}
