package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/prometheus/common/expfmt"

	"github.com/turboinfra/turboinfra/pkg/types"
)

// Encode writes r to w in the Prometheus text format.
func Encode(w io.Writer, r *types.Report) error {
	for _, mf := range toFamilies(r) {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("exporter: encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// WriteTextfile replaces path with the encoded report. Readers never observe
// a partially written file.
func WriteTextfile(path string, r *types.Report) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("exporter: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("exporter: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if err := Encode(tmp, r); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("exporter: close temp file: %w", err)
	}
	// CreateTemp uses 0600; textfile collectors usually run as another user.
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("exporter: chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("exporter: rename: %w", err)
	}
	return nil
}
