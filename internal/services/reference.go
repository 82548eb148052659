package services

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// ReferencePrefix starts every transfer reference id.
const ReferencePrefix = "TXN-"

const referenceHexLen = 12

// NewReferenceID returns "TXN-" followed by the first 12 hex digits of a
// random UUID, upper-cased. Uniqueness is enforced by the ledger table.
func NewReferenceID() string {
	id := uuid.New()
	return ReferencePrefix + strings.ToUpper(hex.EncodeToString(id[:])[:referenceHexLen])
}
