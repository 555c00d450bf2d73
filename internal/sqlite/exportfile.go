// This file provides export document encoding and atomic file persistence.
package sqlite

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/routetimer/pkg/types"
)

// EncodeExport writes doc to w as a single JSON document.
func EncodeExport(w io.Writer, doc types.Export) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}

// DecodeExport reads a JSON export document from r.
func DecodeExport(r io.Reader) (types.Export, error) {
	var doc types.Export
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidDoc, err)
	}
	return doc, nil
}

// ReadExportFile reads an export document from path.
func ReadExportFile(path string) (types.Export, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return DecodeExport(f)
}

// WriteExportFile atomically writes doc to path using the temp-file, fsync,
// rename pattern. A reader never sees a partially written file.
func WriteExportFile(path string, doc types.Export) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".export-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	w := bufio.NewWriter(tmp)
	if err := EncodeExport(w, doc); err != nil {
		return fail(err)
	}
	if err := w.Flush(); err != nil {
		return fail(fmt.Errorf("flushing buffer: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("syncing temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
