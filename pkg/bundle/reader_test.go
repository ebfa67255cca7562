package bundle

import (
	"os"
	"path/filepath"
	"testing"
)

// buildTestImage assembles a minimal packed file by hand (base bytes,
// media, buttons, project document, manifest, footer) without going
// through the export pipeline, so this package's reader can be tested in
// isolation from pkg/export.
func buildTestImage(t *testing.T, base []byte, media, buttons []Asset, project string, icon []byte) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "image.bin")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	if _, err := f.Write(base); err != nil {
		t.Fatalf("write base: %v", err)
	}

	offset := uint64(len(base))
	manifest := &Manifest{Media: []Entry{}, Buttons: []Entry{}}

	for _, a := range media {
		n, err := WriteAsset(f, a)
		if err != nil {
			t.Fatalf("write media: %v", err)
		}
		manifest.Media = append(manifest.Media, Entry{ID: a.ID, Name: a.Name, MimeType: a.MimeType, Offset: offset, Size: uint64(n)})
		offset += uint64(n)
	}

	for _, a := range buttons {
		n, err := WriteAsset(f, a)
		if err != nil {
			t.Fatalf("write button: %v", err)
		}
		manifest.Buttons = append(manifest.Buttons, Entry{ID: a.ID, Name: a.Name, MimeType: a.MimeType, Offset: offset, Size: uint64(n)})
		offset += uint64(n)
	}

	if icon != nil {
		n, err := WriteAsset(f, Asset{Name: "icon", Source: MediaSource{Data: icon}})
		if err != nil {
			t.Fatalf("write icon: %v", err)
		}
		off, size := offset, uint64(n)
		manifest.AppIconOffset, manifest.AppIconSize = &off, &size
		offset += uint64(n)
	}

	manifest.ProjectJSONOffset = offset
	manifest.ProjectJSONSize = uint64(len(project))
	if _, err := f.Write([]byte(project)); err != nil {
		t.Fatalf("write project: %v", err)
	}

	manifestBytes, err := manifest.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal manifest: %v", err)
	}
	if _, err := f.Write(manifestBytes); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	footer := Footer{ManifestSize: uint64(len(manifestBytes))}
	footerBytes, _ := footer.MarshalBinary()
	if _, err := f.Write(footerBytes); err != nil {
		t.Fatalf("write footer: %v", err)
	}

	return path
}

func TestReaderRoundTrip(t *testing.T) {
	t.Run("FullRoundTrip", func(t *testing.T) {
		base := []byte("fake-viewer-executable-bytes")
		media := []Asset{
			{ID: "a", Name: "a.png", MimeType: "image/png", Source: MediaSource{Data: []byte{0x89, 0x50}}},
			{ID: "b", Name: "b.txt", MimeType: "text/plain", Source: MediaSource{Data: []byte{0x68, 0x69}}},
		}
		buttons := []Asset{{ID: "y", Name: "y.png", MimeType: "image/png", Source: MediaSource{Data: []byte{1, 2, 3}}}}
		icon := bytes1024(1024)

		path := buildTestImage(t, base, media, buttons, `{}`, icon)

		r, err := Open(path)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}

		hasEmbedded, manifest := r.Info()
		if !hasEmbedded {
			t.Fatal("expected embedded data")
		}
		if manifest.ProjectJSONOffset < uint64(len(base)) {
			t.Error("projectJsonOffset should be at or after base length")
		}

		doc, err := r.ReadProjectDocument()
		if err != nil {
			t.Fatalf("ReadProjectDocument: %v", err)
		}
		if doc != "{}" {
			t.Errorf("doc: got %q", doc)
		}

		gotA, err := r.ReadAsset("a")
		if err != nil {
			t.Fatalf("ReadAsset(a): %v", err)
		}
		if string(gotA) != "\x89P" {
			t.Errorf("asset a mismatch: %x", gotA)
		}

		gotY, err := r.ReadAsset("y")
		if err != nil {
			t.Fatalf("ReadAsset(y): %v", err)
		}
		if len(gotY) != 3 {
			t.Errorf("asset y len: got %d", len(gotY))
		}

		_, err = r.ReadAsset("z")
		if err == nil {
			t.Fatal("expected error for unknown id")
		}

		gotIcon, ok, err := r.ReadIcon()
		if err != nil {
			t.Fatalf("ReadIcon: %v", err)
		}
		if !ok || len(gotIcon) != 1024 {
			t.Errorf("icon: ok=%v len=%d", ok, len(gotIcon))
		}
	})

	t.Run("NoFooterMeansNoEmbeddedData", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "plain.exe")
		if err := os.WriteFile(path, []byte("just a regular base viewer, no payload"), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}

		r, err := Open(path)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		hasEmbedded, manifest := r.Info()
		if hasEmbedded {
			t.Error("expected hasEmbedded false")
		}
		if manifest != nil {
			t.Error("expected nil manifest")
		}

		if _, err := r.ReadProjectDocument(); err == nil {
			t.Error("expected error reading project document with no embedded data")
		}
	})

	t.Run("NoIconMeansAbsentNotError", func(t *testing.T) {
		path := buildTestImage(t, []byte("base"), nil, nil, `{}`, nil)
		r, err := Open(path)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		data, ok, err := r.ReadIcon()
		if err != nil {
			t.Fatalf("ReadIcon: unexpected error: %v", err)
		}
		if ok || data != nil {
			t.Errorf("expected absent icon, got ok=%v data=%v", ok, data)
		}
	})
}

func bytes1024(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i % 256)
	}
	return b
}
