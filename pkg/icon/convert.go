package icon

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/nfnt/resize"
)

// Convert reads a PNG or JPEG image from src, resizes it to every
// dimension in Sizes with a Lanczos3 filter, and writes the resulting
// multi-entry .ico container to dstPath.
func Convert(src io.Reader, dstPath string) error {
	img, _, err := image.Decode(src)
	if err != nil {
		return fmt.Errorf("convert icon: decode source image: %w", err)
	}

	images := make([][]byte, len(Sizes))
	for i, size := range Sizes {
		resized := resize.Resize(uint(size), uint(size), img, resize.Lanczos3)

		var buf bytes.Buffer
		if err := png.Encode(&buf, resized); err != nil {
			return fmt.Errorf("convert icon: encode %dx%d frame: %w", size, size, err)
		}
		images[i] = buf.Bytes()
	}

	data, err := Encode(images)
	if err != nil {
		return fmt.Errorf("convert icon: %w", err)
	}

	if err := os.WriteFile(dstPath, data, 0o644); err != nil {
		return fmt.Errorf("convert icon: write %q: %w", dstPath, err)
	}
	return nil
}
