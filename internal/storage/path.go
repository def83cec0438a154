package storage

import (
	"fmt"
	"path"
	"regexp"
	"time"
)

var pathComponentPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,127}$`)

// RunID formats a benchmark start time into the artifact key prefix.
func RunID(startedAt time.Time) string {
	return startedAt.UTC().Format("20060102T150405Z")
}

// BuildArtifactPath places one report artifact under its run's prefix.
func BuildArtifactPath(runID, filename string) (string, error) {
	if err := validatePathComponent(runID, "run id"); err != nil {
		return "", err
	}
	if err := validatePathComponent(filename, "artifact filename"); err != nil {
		return "", err
	}
	return path.Join("benchmarks", runID, filename), nil
}

func validatePathComponent(value, field string) error {
	if !pathComponentPattern.MatchString(value) {
		return fmt.Errorf("invalid %s: %q", field, value)
	}
	return nil
}
