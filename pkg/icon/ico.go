// Package icon converts a source raster image into the multi-resolution
// .ico container consumed by the resource patcher.
package icon

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Sizes lists the square icon dimensions written into every .ico container,
// largest first, matching the set Windows expects a well-formed
// application icon to provide.
var Sizes = []int{256, 128, 64, 48, 32, 16}

type icoDirHeader struct {
	Reserved uint16
	Type     uint16
	Count    uint16
}

type icoDirEntry struct {
	Width      uint8
	Height     uint8
	ColorCount uint8
	Reserved   uint8
	Planes     uint16
	BitCount   uint16
	BytesInRes uint32
	ImageOffset uint32
}

// image dimensions of 256 are encoded as 0 in the directory entry, per the
// ICO format's one-byte width/height fields.
func dirDimension(size int) uint8 {
	if size >= 256 {
		return 0
	}
	return uint8(size)
}

// Encode assembles a multi-entry ICO container from pre-rendered PNG images,
// one per entry in Sizes, in the same order. The caller is responsible for
// producing each image at its matching size (see Convert).
func Encode(images [][]byte) ([]byte, error) {
	if len(images) != len(Sizes) {
		return nil, fmt.Errorf("encode ico: expected %d images, got %d", len(Sizes), len(images))
	}

	buf := new(bytes.Buffer)
	header := icoDirHeader{Reserved: 0, Type: 1, Count: uint16(len(images))}
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("encode ico: write header: %w", err)
	}

	dirSize := 6 + 16*len(images)
	offset := uint32(dirSize)
	entries := make([]icoDirEntry, len(images))
	for i, img := range images {
		entries[i] = icoDirEntry{
			Width:       dirDimension(Sizes[i]),
			Height:      dirDimension(Sizes[i]),
			ColorCount:  0,
			Reserved:    0,
			Planes:      1,
			BitCount:    32,
			BytesInRes:  uint32(len(img)),
			ImageOffset: offset,
		}
		offset += uint32(len(img))
	}

	for _, entry := range entries {
		if err := binary.Write(buf, binary.LittleEndian, entry); err != nil {
			return nil, fmt.Errorf("encode ico: write directory entry: %w", err)
		}
	}

	for _, img := range images {
		if _, err := buf.Write(img); err != nil {
			return nil, fmt.Errorf("encode ico: write image data: %w", err)
		}
	}

	return buf.Bytes(), nil
}
