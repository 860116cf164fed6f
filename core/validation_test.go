package core

import (
	"errors"
	"testing"
)

func TestValidateRawRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  *RawRecord
		wantErr error
	}{
		{
			name:    "valid record",
			record:  &RawRecord{PromptText: "cinematic city", ImageURL: "https://img/1.png", Source: "lexica"},
			wantErr: nil,
		},
		{
			name:    "valid record without image",
			record:  &RawRecord{PromptText: "neon dream"},
			wantErr: nil,
		},
		{
			name:    "whitespace prompt is kept verbatim",
			record:  &RawRecord{PromptText: " "},
			wantErr: nil,
		},
		{
			name:    "empty prompt text",
			record:  &RawRecord{ImageURL: "https://img/1.png"},
			wantErr: ErrEmptyPromptText,
		},
		{
			name:    "nil record",
			record:  nil,
			wantErr: ErrInvalidRawRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRawRecord(tt.record)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateRawRecord() unexpected error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateRawRecord() expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRawRecord() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidRawRecord) {
				t.Errorf("ValidateRawRecord() error should wrap ErrInvalidRawRecord, got %v", err)
			}
		})
	}
}

func TestValidateRawRecords(t *testing.T) {
	good := []RawRecord{{PromptText: "a"}, {PromptText: "b"}}
	if err := ValidateRawRecords(good); err != nil {
		t.Fatalf("ValidateRawRecords() unexpected error = %v", err)
	}

	if err := ValidateRawRecords(nil); err != nil {
		t.Fatalf("ValidateRawRecords(nil) unexpected error = %v", err)
	}

	bad := []RawRecord{{PromptText: "a"}, {ImageURL: "x"}, {PromptText: "c"}}
	err := ValidateRawRecords(bad)
	if err == nil {
		t.Fatal("ValidateRawRecords() expected error")
	}
	if !errors.Is(err, ErrEmptyPromptText) {
		t.Errorf("ValidateRawRecords() error = %v, want ErrEmptyPromptText", err)
	}
	if got := err.Error(); got[:8] != "record 1" {
		t.Errorf("ValidateRawRecords() should report the failing index, got %q", got)
	}
}
