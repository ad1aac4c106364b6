package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookcatalog/internal/app"
)

// SweepOrphansTask removes tags without a book and books without an author.
type SweepOrphansTask struct{}

// Config returns the queue configuration for sweep tasks.
func (t SweepOrphansTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "sweep_orphans",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// SweepOrphansProcessor creates a processor function for SweepOrphansTask. Each run gets
// a session of its own from factory.
func SweepOrphansProcessor(factory app.UnitOfWorkFactory) backlite.QueueProcessor[SweepOrphansTask] {
	return func(ctx context.Context, task SweepOrphansTask) error {
		if factory == nil {
			return fmt.Errorf("unit of work factory not configured")
		}

		result, err := app.SweepOrphans(ctx, factory)
		if err != nil {
			return fmt.Errorf("sweep orphans: %w", err)
		}

		log.Info().Int64("books", result.Books).Int64("tags", result.Tags).Msg("Swept orphan rows")
		return nil
	}
}

// NewSweepOrphansQueue creates a backlite queue for sweep tasks.
func NewSweepOrphansQueue(factory app.UnitOfWorkFactory) backlite.Queue {
	return backlite.NewQueue(SweepOrphansProcessor(factory))
}

// EnqueueSweep adds one SweepOrphansTask to the queue.
func (c *Client) EnqueueSweep() error {
	if _, err := c.Add(SweepOrphansTask{}).Save(); err != nil {
		return fmt.Errorf("enqueue sweep: %w", err)
	}
	return nil
}
