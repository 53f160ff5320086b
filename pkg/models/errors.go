package models

import (
	"errors"
	"fmt"
)

var errClaimEmptyStep = errors.New("claim step label must not be empty (use \"unknown\" when unresolved)")

// ClaimFieldError reports a claim field holding a value outside its
// allowed set. The filter engine treats this as a data-integrity error.
type ClaimFieldError struct {
	Field string
	Value string
}

func (e *ClaimFieldError) Error() string {
	return fmt.Sprintf("claim %s has invalid value %q", e.Field, e.Value)
}
