// Package supabase implements storage.PromptStore on top of a Supabase project,
// upserting through its PostgREST endpoint.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/promptharvest/core"
	"github.com/poiesic/promptharvest/storage"
	supa "github.com/supabase-community/supabase-go"
)

// promptRow is the JSON shape of a row in the prompts table.
type promptRow struct {
	PromptText string   `json:"prompt_text"`
	ImageURL   *string  `json:"image_url"`
	Source     string   `json:"source"`
	StyleTags  []string `json:"style_tags"`
}

func toRow(r core.EnrichedRecord) promptRow {
	row := promptRow{
		PromptText: r.PromptText,
		Source:     r.Source,
		StyleTags:  r.StyleTags,
	}
	if r.ImageURL != "" {
		url := r.ImageURL
		row.ImageURL = &url
	}
	if row.StyleTags == nil {
		row.StyleTags = []string{}
	}
	return row
}

// Store upserts prompts into a Supabase table.
type Store struct {
	client *supa.Client
	table  string
	logger *slog.Logger
}

var _ storage.PromptStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithTable overrides the target table. Default is storage.TableName.
func WithTable(table string) Option {
	return func(s *Store) {
		if table != "" {
			s.table = table
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a Supabase-backed store. Both the project URL and the service
// key are required; a missing value is reported as storage.ErrInvalidConfig.
func NewStore(url, serviceKey string, opts ...Option) (storage.PromptStore, error) {
	return newStore(url, serviceKey, opts...)
}

func newStore(url, serviceKey string, opts ...Option) (*Store, error) {
	if url == "" || serviceKey == "" {
		return nil, fmt.Errorf("%w: supabase url and service key must be set", storage.ErrInvalidConfig)
	}

	client, err := supa.NewClient(strings.TrimSuffix(url, "/"), serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrInvalidConfig, err)
	}

	s := &Store{
		client: client,
		table:  storage.TableName,
		logger: slog.Default().With("component", "supabase-store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Upsert sends all rows in one PostgREST request with merge-duplicates
// resolution on prompt_text. The returned count is the number of rows in the
// representation PostgREST sends back.
func (s *Store) Upsert(ctx context.Context, rows []core.EnrichedRecord) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	payload := make([]promptRow, len(rows))
	for i, r := range rows {
		payload[i] = toRow(r)
	}

	s.logger.Debug("upserting rows", "table", s.table, "rows", len(payload))
	data, err := s.execute(ctx, payload)
	if err != nil {
		return 0, err
	}

	var written []json.RawMessage
	if err := json.Unmarshal(data, &written); err != nil {
		return 0, fmt.Errorf("%w: decoding upsert response: %w", storage.ErrRequestFailed, err)
	}
	return len(written), nil
}

type upsertResult struct {
	data []byte
	err  error
}

// execute runs the PostgREST request and waits for it or for ctx. The client
// takes no context, so a cancelled request is abandoned rather than aborted:
// it may still complete on the server after Upsert has returned ctx's error.
func (s *Store) execute(ctx context.Context, payload []promptRow) ([]byte, error) {
	done := make(chan upsertResult, 1)
	go func() {
		data, _, err := s.client.From(s.table).
			Upsert(payload, storage.ConflictKey, "representation", "").
			Execute()
		done <- upsertResult{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", storage.ErrRequestFailed, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return nil, classify(res.err)
		}
		return res.data, nil
	}
}

// Close is a no-op; the Supabase client holds no long-lived connections.
func (s *Store) Close() error {
	return nil
}

// classify maps PostgREST failures onto storage errors. Credential problems
// surface as JWT errors (PGRST301), "Invalid API key" from the gateway, or
// insufficient privilege (42501).
func classify(err error) error {
	msg := err.Error()
	for _, marker := range []string{"PGRST301", "JWT", "Invalid API key", "42501"} {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %w", storage.ErrUnauthorized, err)
		}
	}
	return fmt.Errorf("%w: %w", storage.ErrRequestFailed, err)
}
