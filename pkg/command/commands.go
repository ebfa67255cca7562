// Package command implements the host-facing operations exposed by a
// packed viewer executable: inspecting and reading its own embedded
// payload, and (from the authoring side) producing a new packed
// executable. These mirror the command surface a tutorial viewer/maker
// application exposes to its UI layer.
package command

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/kimkyeseung/tutorialpack/pkg/bundle"
	"github.com/kimkyeseung/tutorialpack/pkg/export"
)

// EmbeddedInfo reports whether the running executable carries a payload
// and, if so, how many assets it indexes.
type EmbeddedInfo struct {
	HasEmbeddedData bool
	MediaCount      int
	ButtonCount     int
	HasAppIcon      bool
}

// GetEmbeddedInfo inspects exePath (typically os.Executable()) and reports
// its embedding status. Absence of a payload is a normal result, not an
// error.
func GetEmbeddedInfo(exePath string) (EmbeddedInfo, error) {
	r, err := bundle.Open(exePath)
	if err != nil {
		return EmbeddedInfo{}, fmt.Errorf("get embedded info: %w", err)
	}

	hasEmbedded, manifest := r.Info()
	if !hasEmbedded {
		return EmbeddedInfo{}, nil
	}

	return EmbeddedInfo{
		HasEmbeddedData: true,
		MediaCount:      len(manifest.Media),
		ButtonCount:     len(manifest.Buttons),
		HasAppIcon:      manifest.HasIcon(),
	}, nil
}

// GetEmbeddedProjectJSON returns the embedded project document as a string.
func GetEmbeddedProjectJSON(exePath string) (string, error) {
	r, err := bundle.Open(exePath)
	if err != nil {
		return "", fmt.Errorf("get embedded project json: %w", err)
	}
	doc, err := r.ReadProjectDocument()
	if err != nil {
		return "", fmt.Errorf("get embedded project json: %w", err)
	}
	return doc, nil
}

// GetEmbeddedMediaData returns the raw bytes of the media or button asset
// identified by id.
func GetEmbeddedMediaData(exePath, id string) ([]byte, error) {
	r, err := bundle.Open(exePath)
	if err != nil {
		return nil, fmt.Errorf("get embedded media data: %w", err)
	}
	data, err := r.ReadAsset(id)
	if err != nil {
		return nil, fmt.Errorf("get embedded media data: %w", err)
	}
	return data, nil
}

// GetEmbeddedAppIcon returns the embedded icon bytes, or nil if the image
// carries no icon.
func GetEmbeddedAppIcon(exePath string) ([]byte, error) {
	r, err := bundle.Open(exePath)
	if err != nil {
		return nil, fmt.Errorf("get embedded app icon: %w", err)
	}
	data, ok, err := r.ReadIcon()
	if err != nil {
		return nil, fmt.Errorf("get embedded app icon: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return data, nil
}

// ExportAsExecutable runs the export pipeline, logging progress through
// logger. It is a thin pass-through to pkg/export, kept here so both CLI
// and any future host-command surface share one entry point.
func ExportAsExecutable(ctx context.Context, logger *log.Logger, req export.Request) error {
	if err := export.Run(ctx, logger, req); err != nil {
		return fmt.Errorf("export as executable: %w", err)
	}
	return nil
}

// CurrentExecutablePath resolves the path of the running executable, the
// implicit target of GetEmbedded* when invoked by a packed viewer itself.
func CurrentExecutablePath() (string, error) {
	path, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve current executable path: %w", err)
	}
	return path, nil
}
