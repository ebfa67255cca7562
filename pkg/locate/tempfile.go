package locate

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TempPath allocates a scratch file path under the OS temp directory for an
// intermediate artifact derived from originalName (e.g. a compressed copy
// of a source video). A millisecond timestamp and a random six-digit suffix
// make collisions between concurrent exports unlikely; they are not ruled
// out.
func TempPath(prefix, originalName, ext string) string {
	stem := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
	if stem == "" {
		stem = "asset"
	}
	timestamp := time.Now().UnixMilli()
	suffix := rand.Intn(1_000_000)
	return filepath.Join(os.TempDir(), fmt.Sprintf("%s_%s_%d_%06d%s", prefix, stem, timestamp, suffix, ext))
}
