package outbound

import (
	"context"
	"time"

	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

// DraftStorePort is the ephemeral TTL store holding live drafts under
// roadmap:<draft_id>. Get returns domain.NotFoundError for a missing or
// expired draft.
type DraftStorePort interface {
	Put(ctx context.Context, draft *domain.Draft, ttl time.Duration) error
	Get(ctx context.Context, draftID string) (*domain.Draft, error)
}
