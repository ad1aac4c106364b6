package http

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookcatalog/internal/app"
)

// Catalog shares one app.UseCases between concurrent requests. Requests run one at a
// time and each ends the session it used: commit when the handler succeeds, rollback when
// it fails.
type Catalog struct {
	mu sync.Mutex
	uc *app.UseCases
}

func NewCatalog(uc *app.UseCases) *Catalog {
	return &Catalog{uc: uc}
}

// Do runs fn with exclusive access to the use cases and finishes the session.
func (c *Catalog) Do(ctx context.Context, fn func(uc *app.UseCases) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := fn(c.uc); err != nil {
		if rbErr := c.uc.Rollback(ctx); rbErr != nil {
			log.Error().Err(rbErr).Msg("Failed to roll back catalog session")
		}
		return err
	}
	err := c.uc.Commit(ctx)
	if errors.Is(err, app.ErrNextSession) {
		log.Warn().Err(err).Msg("Committed, next catalog session not opened yet")
		return nil
	}
	return err
}

// Close discards the open session. Requests after Close fail.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uc.Close()
}
