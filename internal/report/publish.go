package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/trinobench/trinobench/internal/storage"
)

// PublishArtifacts uploads rendered report files to the object store under
// benchmarks/<run id>/ and returns the object keys.
func PublishArtifacts(ctx context.Context, store storage.ObjectStore, startedAt time.Time, paths []string) ([]string, error) {
	runID := storage.RunID(startedAt)
	keys := make([]string, 0, len(paths))

	for _, path := range paths {
		key, err := storage.BuildArtifactPath(runID, filepath.Base(path))
		if err != nil {
			return nil, fmt.Errorf("artifact key for %q: %w", path, err)
		}

		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open artifact %q: %w", path, err)
		}
		info, err := file.Stat()
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("stat artifact %q: %w", path, err)
		}

		_, err = store.Put(ctx, key, file, info.Size(), storage.PutOptions{ContentType: contentTypeFor(path)})
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			return nil, fmt.Errorf("publish artifact %q: %w", path, err)
		}
		keys = append(keys, key)
	}

	return keys, nil
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".parquet":
		return "application/vnd.apache.parquet"
	default:
		return "application/octet-stream"
	}
}
