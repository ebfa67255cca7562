// Package export orchestrates the fixed sequence that turns a project's
// media and project document into a self-extracting executable: copy the
// base viewer, patch its icon, append the payload, then write the
// manifest and footer that locate it.
package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/kimkyeseung/tutorialpack/pkg/bundle"
	"github.com/kimkyeseung/tutorialpack/pkg/icon"
	"github.com/kimkyeseung/tutorialpack/pkg/locate"
	"github.com/kimkyeseung/tutorialpack/pkg/resource"
	"github.com/kimkyeseung/tutorialpack/pkg/video"
)

// MediaFile describes a single media or button asset bound for export,
// before any compression has been applied.
type MediaFile struct {
	ID       string
	Name     string
	MimeType string
	Source   bundle.MediaSource
}

// CompressionSettings mirrors video.Settings but also carries the enabled
// flag, since compression is opt-in per export.
type CompressionSettings struct {
	Enabled   bool
	Quality   video.Quality
	MaxHeight int
}

// Request collects everything a single export needs.
type Request struct {
	BaseViewerPath string // path to the unpacked base viewer executable
	OutputPath     string
	ProjectJSON    string
	MediaFiles     []MediaFile
	ButtonFiles    []MediaFile
	AppIcon        []byte // raw PNG/JPEG source image, or nil
	Compression    CompressionSettings

	// TranscoderPath and ResourceEditorPath are resolved by the caller
	// (see pkg/locate) and only consulted when Compression.Enabled or
	// AppIcon is set, respectively.
	TranscoderPath     string
	ResourceEditorPath string
}

// Run executes the export pipeline. The ordering of steps 1-3 below is an
// invariant of the output format, not a style choice: the resource editor
// can grow or shrink the executable, so the payload's starting offset must
// be read from the file's length after patching, never computed in
// advance. Swapping the order corrupts the footer the viewer looks for at
// launch.
func Run(ctx context.Context, logger *log.Logger, req Request) error {
	var tempFiles []string
	defer func() {
		for _, path := range tempFiles {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				logger.Warn("failed to remove temp file", "path", path, "error", err)
			}
		}
	}()

	media, compressedTemp, err := preprocessMedia(ctx, logger, req)
	tempFiles = append(tempFiles, compressedTemp...)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	// 1. Copy the base viewer into place.
	if err := copyFile(req.BaseViewerPath, req.OutputPath); err != nil {
		return fmt.Errorf("export: prepare base executable: %w", err)
	}

	// 2. Patch the PE icon resource, before any payload is appended.
	if len(req.AppIcon) > 0 {
		icoPath, err := patchIcon(req.OutputPath, req.AppIcon, req.ResourceEditorPath)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		tempFiles = append(tempFiles, icoPath)
	}

	// 3. Append the payload and write the manifest/footer.
	if err := appendPayload(req, media); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	return nil
}

func preprocessMedia(ctx context.Context, logger *log.Logger, req Request) ([]MediaFile, []string, error) {
	if !req.Compression.Enabled {
		return req.MediaFiles, nil, nil
	}

	var tempFiles []string
	out := make([]MediaFile, len(req.MediaFiles))
	for i, file := range req.MediaFiles {
		out[i] = file
		if !video.IsVideo(file.MimeType) || file.Source.Path == "" {
			continue
		}

		outputPath := locate.TempPath("tutorialpack_compressed", file.Name, ".mp4")
		duration := video.Duration(ctx, req.TranscoderPath, file.Source.Path)
		result, err := video.Compress(ctx, req.TranscoderPath, file.Source.Path, outputPath,
			video.Settings{Quality: req.Compression.Quality, MaxHeight: req.Compression.MaxHeight},
			duration, nil)
		if err != nil {
			logger.Warn("video compression failed, using original", "name", file.Name, "error", err)
			continue
		}

		logger.Info("video compressed", "name", file.Name, "ratio", result.CompressionRatio)
		out[i].Source = bundle.MediaSource{Path: result.OutputPath}
		out[i].MimeType = "video/mp4"
		tempFiles = append(tempFiles, result.OutputPath)
	}

	return out, tempFiles, nil
}

func patchIcon(exePath string, iconData []byte, editorPath string) (icoPath string, err error) {
	icoPath = locate.TempPath("tutorialpack_icon", "app", ".ico")
	if err := icon.Convert(bytes.NewReader(iconData), icoPath); err != nil {
		return "", fmt.Errorf("set executable icon: %w", err)
	}
	if err := resource.SetIcon(context.Background(), editorPath, exePath, icoPath); err != nil {
		return icoPath, fmt.Errorf("set executable icon: %w", err)
	}
	return icoPath, nil
}

func appendPayload(req Request, media []MediaFile) error {
	f, err := os.OpenFile(req.OutputPath, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("open output for append: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat output: %w", err)
	}
	offset := uint64(info.Size())

	manifest := &bundle.Manifest{Media: []bundle.Entry{}, Buttons: []bundle.Entry{}}

	for _, file := range media {
		entry, written, err := writeEntry(f, offset, file)
		if err != nil {
			return err
		}
		manifest.Media = append(manifest.Media, entry)
		offset += written
	}

	for _, file := range req.ButtonFiles {
		entry, written, err := writeEntry(f, offset, file)
		if err != nil {
			return err
		}
		manifest.Buttons = append(manifest.Buttons, entry)
		offset += written
	}

	if len(req.AppIcon) > 0 {
		n, err := bundle.WriteAsset(f, bundle.Asset{Name: "app-icon", Source: bundle.MediaSource{Data: req.AppIcon}})
		if err != nil {
			return fmt.Errorf("write app icon: %w", err)
		}
		off, size := offset, uint64(n)
		manifest.AppIconOffset, manifest.AppIconSize = &off, &size
		offset += uint64(n)
	}

	manifest.ProjectJSONOffset = offset
	manifest.ProjectJSONSize = uint64(len(req.ProjectJSON))
	if _, err := f.Write([]byte(req.ProjectJSON)); err != nil {
		return fmt.Errorf("write project document: %w", err)
	}

	manifestBytes, err := manifest.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if _, err := f.Write(manifestBytes); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	footer := bundle.Footer{ManifestSize: uint64(len(manifestBytes))}
	footerBytes, err := footer.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal footer: %w", err)
	}
	if _, err := f.Write(footerBytes); err != nil {
		return fmt.Errorf("write footer: %w", err)
	}

	return nil
}

func writeEntry(f *os.File, offset uint64, file MediaFile) (bundle.Entry, uint64, error) {
	n, err := bundle.WriteAsset(f, bundle.Asset{ID: file.ID, Name: file.Name, MimeType: file.MimeType, Source: file.Source})
	if err != nil {
		return bundle.Entry{}, 0, fmt.Errorf("write asset %q: %w", file.Name, err)
	}
	return bundle.Entry{ID: file.ID, Name: file.Name, MimeType: file.MimeType, Offset: offset, Size: uint64(n)}, uint64(n), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open base viewer %q: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create output %q: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy base viewer: %w", err)
	}
	return out.Close()
}
