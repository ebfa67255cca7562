// Package resource invokes the external PE resource editor used to stamp a
// custom application icon onto a copied base viewer executable.
package resource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrPatchFailed is wrapped around any non-zero exit from the resource
// editor, with the editor's stderr output attached for diagnostics.
var ErrPatchFailed = errors.New("resource editor failed")

// SetIcon invokes editorPath against exePath, replacing its embedded icon
// resource with the .ico file at icoPath. The editor is treated as an
// opaque subprocess: SetIcon only observes its exit status and stderr, and
// makes no assumption about how it rewrites the executable's resources.
func SetIcon(ctx context.Context, editorPath, exePath, icoPath string) error {
	cmd := exec.CommandContext(ctx, editorPath, exePath, "--set-icon", icoPath)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPatchFailed, stderr.String(), err)
	}
	return nil
}
