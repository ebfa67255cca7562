package locate

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// ScannedAsset is a candidate asset discovered while walking a project's
// media directories for the pack CLI command.
type ScannedAsset struct {
	ID       string
	Path     string
	MimeType string
	Size     int64
}

// ScanAssetDir walks dir (expected layout: <dir>/media/* and
// <dir>/buttons/*, mirroring a tutorial project's on-disk structure) and
// returns every regular file found under category, deriving each asset's id
// from its filename stem and its mime type from its extension.
func ScanAssetDir(dir, category string) ([]ScannedAsset, error) {
	root := filepath.Join(dir, category)
	var assets []ScannedAsset

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == root {
				return filepath.SkipDir
			}
			return err
		}
		if info.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		stem := strings.TrimSuffix(filepath.Base(path), ext)
		mimeType := mime.TypeByExtension(ext)
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}

		assets = append(assets, ScannedAsset{
			ID:       stem,
			Path:     path,
			MimeType: strings.SplitN(mimeType, ";", 2)[0],
			Size:     info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s directory %q: %w", category, root, err)
	}

	return assets, nil
}
