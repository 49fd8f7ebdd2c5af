package inbound

import (
	"context"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
)

// GenerationPipelinePort runs one content-generation job end to end.
// lastAttempt tells the pipeline the queue will not retry again, so a
// failure must be recorded as permanent. A returned error is rethrown to
// the queue so its retry policy applies.
type GenerationPipelinePort interface {
	Run(ctx context.Context, job outbound.GenerationJob, lastAttempt bool) error
}
