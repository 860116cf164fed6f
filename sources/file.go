package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/poiesic/promptharvest/core"
)

// File reads prompts from a local JSON array of records, such as an export
// of the prompts table. Keys are prompt_text, image_url and source.
type File struct {
	Path string
}

var _ Adapter = (*File)(nil)

// NewFile creates an adapter reading path.
func NewFile(path string) *File {
	return &File{Path: path}
}

// Name returns "file/<base name>".
func (f *File) Name() string {
	return "file/" + filepath.Base(f.Path)
}

// Fetch returns the records in the file. Records without a source are
// attributed to the adapter.
func (f *File) Fetch(ctx context.Context) ([]core.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	var records []core.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", f.Path, err)
	}
	for i := range records {
		if records[i].Source == "" {
			records[i].Source = f.Name()
		}
	}
	return records, nil
}
