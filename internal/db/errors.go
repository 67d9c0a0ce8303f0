// Package db provides error translation for SurrealDB operations.
package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"

	"github.com/avelis/clinscribe/internal/store"
)

// ErrTransactionConflict indicates a SurrealDB transaction conflict.
// This occurs when multiple concurrent operations attempt to modify the
// same records. Callers should typically retry the operation.
var ErrTransactionConflict = errors.New("transaction conflict")

// wrapQueryError inspects a SurrealDB error and wraps it with the
// appropriate sentinel if it matches a known query error pattern.
// Index violations on the session table surface as store.ErrDuplicateID
// so callers never depend on SurrealDB error strings.
func wrapQueryError(err error) error {
	if err == nil {
		return nil
	}

	var queryErr *surrealdb.QueryError
	if errors.As(err, &queryErr) {
		msg := queryErr.Message
		if strings.Contains(msg, "already exists") || strings.Contains(msg, "already contains") {
			return fmt.Errorf("%w: %s", store.ErrDuplicateID, msg)
		}
		if strings.Contains(msg, "Transaction conflict") {
			return fmt.Errorf("%w: %s", ErrTransactionConflict, msg)
		}
	}

	return err
}
