package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/config"
)

type courseNotification struct {
	CourseID string `json:"course_id"`
}

type CollaboratorClient struct {
	logger     outbound.LoggerPort
	fetcher    ContentFetcher
	authorizer Authorizer
	cfg        *config.CollaboratorsConfig
}

// NewCollaboratorClient notifies the assessment and tutor services that a
// course's content is ready. Both calls carry a client-credentials token.
func NewCollaboratorClient(fetcher ContentFetcher, authorizer Authorizer,
	cfg *config.CollaboratorsConfig, logger outbound.LoggerPort) *CollaboratorClient {
	return &CollaboratorClient{
		logger:     logger,
		fetcher:    fetcher,
		authorizer: authorizer,
		cfg:        cfg,
	}
}

func (c *CollaboratorClient) GenerateAssessments(ctx context.Context, courseID uuid.UUID) error {
	return c.notify(ctx, c.cfg.AssessmentApiUrl+"/assessments/generate", courseID)
}

func (c *CollaboratorClient) InitializeTutor(ctx context.Context, courseID uuid.UUID) error {
	return c.notify(ctx, c.cfg.TutorApiUrl+"/tutors/initialize", courseID)
}

func (c *CollaboratorClient) notify(ctx context.Context, url string, courseID uuid.UUID) error {
	token, err := c.authorizer.Authorize(ctx)
	if err != nil {
		c.logger.Error(err, "Failed to authorize collaborator call")
		return err
	}

	payload, err := json.Marshal(courseNotification{CourseID: courseID.String()})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	if _, err := c.fetcher.FetchContent(req); err != nil {
		return fmt.Errorf("collaborator call to %s failed: %w", url, err)
	}
	return nil
}
