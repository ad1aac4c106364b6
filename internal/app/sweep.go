package app

import (
	"context"
	"fmt"
)

// SweepResult reports how many rows an orphan sweep removed.
type SweepResult struct {
	Tags  int64 `json:"tags"`
	Books int64 `json:"books"`
}

// SweepOrphans removes tags without a book and books without an author in a session of its
// own. Such rows only exist if they were written while foreign keys were not enforced.
func SweepOrphans(ctx context.Context, factory UnitOfWorkFactory) (SweepResult, error) {
	uow, err := factory.New()
	if err != nil {
		return SweepResult{}, fmt.Errorf("open unit of work: %w", err)
	}
	defer uow.Close()

	var result SweepResult
	// Tags first: they include the tags of the orphan books removed next.
	if result.Tags, err = uow.Tags().DeleteOrphans(ctx); err != nil {
		return SweepResult{}, fmt.Errorf("sweep orphan tags: %w", err)
	}
	if result.Books, err = uow.Books().DeleteOrphans(ctx); err != nil {
		return SweepResult{}, fmt.Errorf("sweep orphan books: %w", err)
	}
	if err := uow.Commit(ctx); err != nil {
		return SweepResult{}, fmt.Errorf("commit sweep: %w", err)
	}
	return result, nil
}
