package bundle

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestManifest(t *testing.T) {
	t.Run("MarshalUnmarshal", func(t *testing.T) {
		iconOff, iconSize := uint64(100), uint64(50)
		original := &Manifest{
			ProjectJSONOffset: 10,
			ProjectJSONSize:   20,
			Media: []Entry{
				{ID: "a", Name: "a.png", MimeType: "image/png", Offset: 0, Size: 2},
			},
			Buttons:       []Entry{{ID: "b", Name: "b.png", MimeType: "image/png", Offset: 2, Size: 2}},
			AppIconOffset: &iconOff,
			AppIconSize:   &iconSize,
		}

		data, err := original.MarshalBinary()
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}

		decoded := &Manifest{}
		if err := decoded.UnmarshalBinary(data); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}

		if decoded.ProjectJSONOffset != original.ProjectJSONOffset {
			t.Errorf("ProjectJSONOffset: got %d, want %d", decoded.ProjectJSONOffset, original.ProjectJSONOffset)
		}
		if len(decoded.Media) != 1 || decoded.Media[0].ID != "a" {
			t.Errorf("Media: got %+v", decoded.Media)
		}
		if !decoded.HasIcon() {
			t.Error("expected HasIcon true")
		}
	})

	t.Run("AbsentIconFieldsOmitted", func(t *testing.T) {
		m := &Manifest{Media: []Entry{}, Buttons: []Entry{}}
		data, err := m.MarshalBinary()
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if strings.Contains(string(data), "appIconOffset") || strings.Contains(string(data), "appIconSize") {
			t.Errorf("expected icon fields to be absent, got %s", data)
		}

		decoded := &Manifest{}
		if err := decoded.UnmarshalBinary(data); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if decoded.HasIcon() {
			t.Error("expected HasIcon false")
		}
	})

	t.Run("UnknownFieldsTolerated", func(t *testing.T) {
		raw := `{"projectJsonOffset":1,"projectJsonSize":2,"media":[],"buttons":[],"checksum":"deadbeef"}`
		decoded := &Manifest{}
		if err := decoded.UnmarshalBinary([]byte(raw)); err != nil {
			t.Fatalf("expected unknown field to be tolerated, got error: %v", err)
		}
	})

	t.Run("EmptyArraysNotNull", func(t *testing.T) {
		m := &Manifest{}
		data, err := m.MarshalBinary()
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			t.Fatalf("unmarshal raw: %v", err)
		}
		if string(raw["media"]) != "[]" || string(raw["buttons"]) != "[]" {
			t.Errorf("media/buttons: got %s / %s, want [] / []", raw["media"], raw["buttons"])
		}
	})

	t.Run("FindEntryAcrossLists", func(t *testing.T) {
		m := &Manifest{
			Media:   []Entry{{ID: "x", Offset: 0, Size: 1}},
			Buttons: []Entry{{ID: "y", Offset: 1, Size: 1}},
		}

		if _, err := m.findEntry("x"); err != nil {
			t.Errorf("findEntry(x): %v", err)
		}
		if _, err := m.findEntry("y"); err != nil {
			t.Errorf("findEntry(y): %v", err)
		}

		_, err := m.findEntry("z")
		if err == nil {
			t.Fatal("expected error for missing id")
		}
		if !strings.Contains(err.Error(), "z") {
			t.Errorf("error should mention missing id, got %v", err)
		}
	})
}
