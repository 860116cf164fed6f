// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateRawRecord validates a RawRecord according to domain rules.
//
// Validation rules:
//   - PromptText must not be empty
//
// NOT validated:
//   - ImageURL (optional, some sources publish text only)
//   - Source (filled in by the adapter when it is used downstream)
func ValidateRawRecord(record *RawRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRawRecord)
	}

	if err := validate.Struct(record); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.StructField() == "PromptText" {
					return fmt.Errorf("%w: %w", ErrInvalidRawRecord, ErrEmptyPromptText)
				}
			}
		}
		return fmt.Errorf("%w: %w", ErrInvalidRawRecord, err)
	}

	return nil
}

// ValidateRawRecords validates every record in the slice and reports the
// first failure together with its position.
func ValidateRawRecords(records []RawRecord) error {
	for i := range records {
		if err := ValidateRawRecord(&records[i]); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}
