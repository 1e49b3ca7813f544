package clipboard

import (
	"context"
	"runtime"

	"critview/internal/util"
)

// CopyText puts text on the system clipboard using the platform's native
// tool. Platforms without a known tool are a silent no-op.
func CopyText(ctx context.Context, text string) error {
	switch runtime.GOOS {
	case "darwin":
		_, err := util.RunWithStdin(ctx, "", text, "pbcopy")
		return err
	case "linux":
		_, err := util.RunWithStdin(ctx, "", text, "xclip", "-selection", "clipboard")
		return err
	case "windows":
		_, err := util.RunWithStdin(ctx, "", text, "clip")
		return err
	default:
		return nil
	}
}
