package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/colonyops/redline/internal/core/config"
)

// readDocument loads a document after checking it against the configured
// allow patterns.
func readDocument(cfg *config.Config, path string) (string, error) {
	if !cfg.AllowsDocument(path) {
		return "", fmt.Errorf("document %q does not match any configured document pattern", path)
	}

	bits, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return string(bits), nil
}

// writeDocument replaces the document atomically: the new text is written
// to a sibling temp file and renamed over the original, so a crash mid
// write never leaves a half-applied document behind.
func writeDocument(path, text string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".redline-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if info, err := os.Stat(path); err == nil {
		_ = os.Chmod(tmpPath, info.Mode())
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}
