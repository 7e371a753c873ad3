package repository

import (
	"context"
	"errors"
	"fmt"
)

// Batch runs a sequence of remote writes. The backend offers no transaction across requests,
// so each successful step may register an undo that runs, newest first, if a later step fails.
type Batch struct {
	undo []func(ctx context.Context) error
}

// OnRollback registers a compensation for the step that just succeeded
func (b *Batch) OnRollback(fn func(ctx context.Context) error) {
	b.undo = append(b.undo, fn)
}

// RunBatch executes fn; when it fails every registered compensation is attempted.
// The returned error wraps fn's error and, if any, the compensation failures.
func RunBatch(ctx context.Context, fn func(ctx context.Context, b *Batch) error) error {
	b := &Batch{}
	err := fn(ctx, b)
	if err == nil {
		return nil
	}

	var undoErrs []error
	for i := len(b.undo) - 1; i >= 0; i-- {
		if uErr := b.undo[i](context.WithoutCancel(ctx)); uErr != nil {
			undoErrs = append(undoErrs, uErr)
		}
	}
	if len(undoErrs) > 0 {
		return fmt.Errorf("%w (rollback incomplete: %w)", err, errors.Join(undoErrs...))
	}
	return err
}
