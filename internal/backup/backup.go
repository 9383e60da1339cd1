// Package backup wraps the full database in a JSON envelope for export and
// restore. Restoring upserts by id into the live store; it never clears
// existing records, so restoring a store's own backup changes nothing.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paytracker/paytracker/internal/domain"
)

// DefaultFilename is the conventional backup file name.
const DefaultFilename = "payment-tracker-backup.json"

// Marshal encodes the envelope.
func Marshal(snap domain.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return data, nil
}

// Parse decodes a backup envelope.
func Parse(data []byte) (domain.Snapshot, error) {
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode backup: %w", err)
	}
	return snap, nil
}

// WriteFile saves the envelope to path via write-then-rename.
func WriteFile(path string, snap domain.Snapshot) error {
	data, err := Marshal(snap)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace backup: %w", err)
	}
	return nil
}

// ReadFile loads a backup envelope from path.
func ReadFile(path string) (domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read backup: %w", err)
	}
	return Parse(data)
}
