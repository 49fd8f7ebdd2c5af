package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

const draftKeyPrefix = "roadmap:"

type redisDraftStore struct {
	logger outbound.LoggerPort
	client *redis.Client
}

// NewRedisDraftStore keeps drafts as JSON values under roadmap:<id> with a
// per-write TTL. Expiry is the only delete path; finalize leaves the key to
// lapse on its own.
func NewRedisDraftStore(client *redis.Client, logger outbound.LoggerPort) outbound.DraftStorePort {
	return &redisDraftStore{
		logger: logger,
		client: client,
	}
}

func (s *redisDraftStore) Put(ctx context.Context, draft *domain.Draft, ttl time.Duration) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, draftKeyPrefix+draft.ID, payload, ttl).Err(); err != nil {
		s.logger.ErrorWithFields(err, "Failed to store draft", map[string]interface{}{
			"draft_id": draft.ID,
		})
		return &domain.TransientIOError{Op: "store draft", Err: err}
	}
	return nil
}

func (s *redisDraftStore) Get(ctx context.Context, draftID string) (*domain.Draft, error) {
	payload, err := s.client.Get(ctx, draftKeyPrefix+draftID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, &domain.NotFoundError{Resource: "draft", ID: draftID}
	}
	if err != nil {
		return nil, &domain.TransientIOError{Op: "load draft", Err: err}
	}

	var draft domain.Draft
	if err := json.Unmarshal(payload, &draft); err != nil {
		s.logger.ErrorWithFields(err, "Stored draft is unreadable", map[string]interface{}{
			"draft_id": draftID,
		})
		return nil, &domain.NotFoundError{Resource: "draft", ID: draftID}
	}
	return &draft, nil
}
