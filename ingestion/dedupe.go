package ingestion

import (
	"log/slog"

	"github.com/poiesic/promptharvest/core"
)

// Dedupe keeps the first record seen for each prompt text and preserves
// first-seen order. Records with empty prompt text are dropped.
// The input is not modified.
func Dedupe(records []core.RawRecord) []core.RawRecord {
	return dedupe(records, nil)
}

func dedupe(records []core.RawRecord, logger *slog.Logger) []core.RawRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]core.RawRecord, 0, len(records))
	for _, r := range records {
		key := r.Key()
		if key == "" {
			if logger != nil {
				logger.Debug("dropping record without prompt text", "source", r.Source)
			}
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
