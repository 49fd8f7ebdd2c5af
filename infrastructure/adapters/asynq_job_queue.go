package adapters

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/hibiken/asynq"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/inbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/config"
	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

// TaskTypeGeneration is the queue task name for one content-generation job.
const TaskTypeGeneration = "content:generate"

type asynqJobQueue struct {
	logger outbound.LoggerPort
	client *asynq.Client
	cfg    *config.QueueConfig
}

// NewAsynqJobQueue enqueues durable generation jobs on redis. The attempt
// budget is total executions, so the queue's retry count is one less.
func NewAsynqJobQueue(client *asynq.Client, cfg *config.QueueConfig, logger outbound.LoggerPort) outbound.JobQueuePort {
	return &asynqJobQueue{
		logger: logger,
		client: client,
		cfg:    cfg,
	}
}

func (q *asynqJobQueue) EnqueueGeneration(ctx context.Context, job outbound.GenerationJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	task := asynq.NewTask(TaskTypeGeneration, payload)
	info, err := q.client.EnqueueContext(ctx, task,
		asynq.MaxRetry(q.cfg.Attempts-1),
		asynq.Timeout(0),
	)
	if err != nil {
		return &domain.TransientIOError{Op: "enqueue generation job", Err: err}
	}
	q.logger.InfoWithFields("generation job enqueued", map[string]interface{}{
		"task_id":   info.ID,
		"course_id": job.CourseID.String(),
	})
	return nil
}

// ExponentialBackoff implements the queue's retry delay: base * 2^n.
func ExponentialBackoff(base time.Duration) asynq.RetryDelayFunc {
	return func(n int, err error, task *asynq.Task) time.Duration {
		return base * time.Duration(math.Pow(2, float64(n)))
	}
}

// NewGenerationTaskHandler decodes the payload and hands the job to the
// pipeline. lastAttempt is derived from the queue's own retry bookkeeping
// so the pipeline can mark the final failure permanent.
func NewGenerationTaskHandler(pipeline inbound.GenerationPipelinePort, logger outbound.LoggerPort) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var job outbound.GenerationJob
		if err := json.Unmarshal(task.Payload(), &job); err != nil {
			logger.Error(err, "Dropping generation task with unreadable payload")
			return asynq.SkipRetry
		}

		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)
		lastAttempt := retried >= maxRetry

		err := pipeline.Run(ctx, job, lastAttempt)
		if err != nil && lastAttempt {
			// already recorded as permanent; stop the queue from retrying
			return asynq.SkipRetry
		}
		return err
	}
}
