package repository

import (
	"context"

	"github.com/mverbeke/kassa-api/internal/domain/entity"
)

// SalesCache is a best-effort cache for the recent-sales listing shown
// on the register. A miss or a cache failure is never an error; the
// caller falls through to the repository.
type SalesCache interface {
	// GetRecent returns limit cached sales, newest-first. The bool
	// reports whether the cache could answer; a warm entry holding
	// fewer than limit sales is a miss.
	GetRecent(ctx context.Context, limit int) ([]entity.Sale, bool)

	// SetRecent replaces the cached listing.
	SetRecent(ctx context.Context, sales []entity.Sale)

	// Invalidate drops the cached listing after a write.
	Invalidate(ctx context.Context)
}
