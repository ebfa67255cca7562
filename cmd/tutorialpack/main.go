// Command tutorialpack packs a tutorial project (a project document plus
// media and button assets) into a self-extracting viewer executable, and
// unpacks one back out.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/kimkyeseung/tutorialpack/pkg/bundle"
	"github.com/kimkyeseung/tutorialpack/pkg/command"
	"github.com/kimkyeseung/tutorialpack/pkg/export"
	"github.com/kimkyeseung/tutorialpack/pkg/locate"
	"github.com/kimkyeseung/tutorialpack/pkg/video"
)

var (
	mode           string
	projectDir     string
	viewerPath     string
	outputPath     string
	inputPath      string
	assetID        string
	extractDir     string
	compress       bool
	compressMax    int
	compressQuality string
	iconPath       string
)

func init() {
	flag.StringVar(&mode, "mode", "", "Operation mode: pack, unpack")
	flag.StringVar(&projectDir, "project", "", "Project directory (expects project.json, media/, buttons/)")
	flag.StringVar(&viewerPath, "viewer", "", "Path to the base viewer executable")
	flag.StringVar(&outputPath, "output", "", "Output path for pack mode")
	flag.StringVar(&inputPath, "input", "", "Packed executable to read from in unpack mode")
	flag.StringVar(&assetID, "asset", "", "Asset id to extract in unpack mode (default: dump manifest and project json)")
	flag.StringVar(&extractDir, "extract-dir", "", "Directory to write extracted assets into")
	flag.BoolVar(&compress, "compress", false, "Compress video media before packing")
	flag.IntVar(&compressMax, "compress-max-height", 0, "Max output height when compressing video (0 = keep source resolution)")
	flag.StringVar(&compressQuality, "compress-quality", "medium", "Compression quality: low, medium, high")
	flag.StringVar(&iconPath, "icon", "", "Path to a PNG/JPEG source image for the app icon")
}

func main() {
	logger := log.New(os.Stderr)
	flag.Parse()

	if err := run(logger); err != nil {
		logger.Error("tutorialpack failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *log.Logger) error {
	if err := validateFlags(); err != nil {
		flag.Usage()
		return err
	}

	switch mode {
	case "pack":
		return runPack(logger)
	case "unpack":
		return runUnpack(logger)
	default:
		return fmt.Errorf("unknown mode: %s", mode)
	}
}

func validateFlags() error {
	if mode == "" {
		return fmt.Errorf("mode is required")
	}

	switch mode {
	case "pack":
		if projectDir == "" || viewerPath == "" || outputPath == "" {
			return fmt.Errorf("pack mode requires -project, -viewer, and -output")
		}
	case "unpack":
		if inputPath == "" {
			return fmt.Errorf("unpack mode requires -input")
		}
	default:
		return fmt.Errorf("mode must be 'pack' or 'unpack'")
	}

	return nil
}

func runPack(logger *log.Logger) error {
	projectJSONPath := filepath.Join(projectDir, "project.json")
	projectJSON, err := os.ReadFile(projectJSONPath)
	if err != nil {
		return fmt.Errorf("read project document: %w", err)
	}

	mediaAssets, err := locate.ScanAssetDir(projectDir, "media")
	if err != nil {
		return fmt.Errorf("scan media: %w", err)
	}
	buttonAssets, err := locate.ScanAssetDir(projectDir, "buttons")
	if err != nil {
		return fmt.Errorf("scan buttons: %w", err)
	}

	req := export.Request{
		BaseViewerPath: viewerPath,
		OutputPath:     outputPath,
		ProjectJSON:    string(projectJSON),
		MediaFiles:     toMediaFiles(mediaAssets),
		ButtonFiles:    toMediaFiles(buttonAssets),
	}

	if iconPath != "" {
		data, err := os.ReadFile(iconPath)
		if err != nil {
			return fmt.Errorf("read icon source: %w", err)
		}
		req.AppIcon = data

		editorPath, err := locate.Helper(resourceEditorName(), projectDir)
		if err != nil {
			return fmt.Errorf("locate resource editor: %w", err)
		}
		req.ResourceEditorPath = editorPath
	}

	if compress {
		transcoderPath, err := locate.Helper(transcoderName(), projectDir)
		if err != nil {
			return fmt.Errorf("locate transcoder: %w", err)
		}
		req.TranscoderPath = transcoderPath
		req.Compression = export.CompressionSettings{
			Enabled:   true,
			Quality:   parseQuality(compressQuality),
			MaxHeight: compressMax,
		}
	}

	if err := command.ExportAsExecutable(context.Background(), logger, req); err != nil {
		return fmt.Errorf("pack: %w", err)
	}

	logger.Info("packed executable written", "path", outputPath)
	return nil
}

func runUnpack(logger *log.Logger) error {
	r, err := bundle.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open packed executable: %w", err)
	}

	hasEmbedded, manifest := r.Info()
	if !hasEmbedded {
		return fmt.Errorf("%q carries no embedded payload", inputPath)
	}

	if assetID != "" {
		data, err := r.ReadAsset(assetID)
		if err != nil {
			return fmt.Errorf("unpack: %w", err)
		}
		return writeExtracted(assetID, data)
	}

	doc, err := r.ReadProjectDocument()
	if err != nil {
		return fmt.Errorf("unpack: %w", err)
	}

	summary, err := json.MarshalIndent(struct {
		Project string          `json:"project"`
		Media   []bundle.Entry  `json:"media"`
		Buttons []bundle.Entry  `json:"buttons"`
		HasIcon bool            `json:"hasIcon"`
	}{Project: doc, Media: manifest.Media, Buttons: manifest.Buttons, HasIcon: manifest.HasIcon()}, "", "  ")
	if err != nil {
		return fmt.Errorf("unpack: marshal summary: %w", err)
	}

	fmt.Println(string(summary))
	logger.Info("unpack complete", "mediaCount", len(manifest.Media), "buttonCount", len(manifest.Buttons))
	return nil
}

func writeExtracted(id string, data []byte) error {
	dir := extractDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create extract directory: %w", err)
	}
	path := filepath.Join(dir, id)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write extracted asset: %w", err)
	}
	return nil
}

func toMediaFiles(assets []locate.ScannedAsset) []export.MediaFile {
	files := make([]export.MediaFile, len(assets))
	for i, a := range assets {
		files[i] = export.MediaFile{
			ID:       a.ID,
			Name:     filepath.Base(a.Path),
			MimeType: a.MimeType,
			Source:   bundle.MediaSource{Path: a.Path},
		}
	}
	return files
}

func parseQuality(s string) video.Quality {
	switch s {
	case "low":
		return video.QualityLow
	case "high":
		return video.QualityHigh
	default:
		return video.QualityMedium
	}
}

func resourceEditorName() string {
	if runtime.GOOS == "windows" {
		return "rcedit.exe"
	}
	return "rcedit"
}

func transcoderName() string {
	if runtime.GOOS == "windows" {
		return "ffmpeg.exe"
	}
	return "ffmpeg"
}
