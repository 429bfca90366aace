package generator

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// copyAssets mirrors the static asset tree into the output, byte for byte.
// Files copy in sorted order so builds stay deterministic.
func copyAssets(ctx context.Context, assets fs.FS, writer ArtifactWriter) (int, error) {
	if assets == nil {
		return 0, nil
	}

	var paths []string
	walkErr := fs.WalkDir(assets, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if walkErr != nil {
		return 0, fmt.Errorf("generator: walk assets: %w", walkErr)
	}
	sort.Strings(paths)

	copied := 0
	for _, p := range paths {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return copied, ctxErr
		}

		data, err := fs.ReadFile(assets, p)
		if err != nil {
			return copied, fmt.Errorf("generator: read asset %s: %w", p, err)
		}

		sum := sha256.Sum256(data)
		if err := writer.WriteFile(ctx, WriteRequest{
			Path:        p,
			Content:     bytes.NewReader(data),
			Size:        int64(len(data)),
			Category:    categoryAsset,
			ContentType: detectAssetContentType(p),
			Checksum:    hex.EncodeToString(sum[:]),
		}); err != nil {
			return copied, fmt.Errorf("generator: write asset %s: %w", p, err)
		}
		copied++
	}

	return copied, nil
}

func detectAssetContentType(asset string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(asset), "."))
	switch ext {
	case "css":
		return "text/css"
	case "js":
		return "application/javascript"
	case "json":
		return "application/json"
	case "svg":
		return "image/svg+xml"
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "ico":
		return "image/x-icon"
	default:
		return "application/octet-stream"
	}
}
