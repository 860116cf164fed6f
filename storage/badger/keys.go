package badger

import (
	"fmt"

	"github.com/poiesic/promptharvest/core"
)

// Key prefixes for different data types
const (
	promptRecordPrefix = "prmrec"
)

// makePromptKey generates a key for a prompt by its content ID.
// Format: prefix:id
func makePromptKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", promptRecordPrefix, id))
}

// promptScanPrefix is the iteration prefix covering every prompt key.
func promptScanPrefix() []byte {
	return []byte(promptRecordPrefix + ":")
}
