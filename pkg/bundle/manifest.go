package bundle

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoEmbeddedData is returned by read operations that require a payload
// when the footer/magic is absent from the image. getEmbeddedInfo never
// returns this error — absence of a payload is a normal, reportable state
// there, not a failure.
var ErrNoEmbeddedData = errors.New("no embedded data found")

// ErrAssetNotFound is wrapped with the requested id to produce the
// "Media not found: {id}" message mandated by spec.md §4.4/§7.
var ErrAssetNotFound = errors.New("Media not found")

// Entry indexes one asset (media or button) within the payload.
type Entry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Offset   uint64 `json:"offset"`
	Size     uint64 `json:"size"`
}

// Manifest is the JSON index written immediately after the project
// document and read before the footer. Field names are camelCase on the
// wire, exactly as laid out in spec.md §3. Unknown fields are tolerated by
// plain encoding/json unmarshaling so future additions (e.g. checksums)
// don't break older readers.
type Manifest struct {
	ProjectJSONOffset uint64  `json:"projectJsonOffset"`
	ProjectJSONSize   uint64  `json:"projectJsonSize"`
	Media             []Entry `json:"media"`
	Buttons           []Entry `json:"buttons"`
	AppIconOffset     *uint64 `json:"appIconOffset,omitempty"`
	AppIconSize       *uint64 `json:"appIconSize,omitempty"`
}

// MarshalBinary serializes the manifest as compact JSON. Numbers are
// unsigned 64-bit and encoding/json never renders them as floats, so no
// extra care is needed there. Nil media and button lists are written as
// empty arrays, never as null.
func (m *Manifest) MarshalBinary() ([]byte, error) {
	out := *m
	if out.Media == nil {
		out.Media = []Entry{}
	}
	if out.Buttons == nil {
		out.Buttons = []Entry{}
	}
	data, err := json.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// UnmarshalBinary parses a manifest from compact JSON, tolerating unknown
// fields for forward compatibility.
func (m *Manifest) UnmarshalBinary(data []byte) error {
	if err := json.Unmarshal(data, m); err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}
	return nil
}

// findEntry looks up id first in media, then in buttons, matching the
// lookup order spec.md §4.4 mandates for readAsset.
func (m *Manifest) findEntry(id string) (Entry, error) {
	for _, e := range m.Media {
		if e.ID == id {
			return e, nil
		}
	}
	for _, e := range m.Buttons {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrAssetNotFound, id)
}

// HasIcon reports whether both icon offset and size are present. The two
// fields are always present or absent together (spec.md §3 invariant).
func (m *Manifest) HasIcon() bool {
	return m.AppIconOffset != nil && m.AppIconSize != nil
}
