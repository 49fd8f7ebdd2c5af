package outbound

import (
	"context"

	"github.com/google/uuid"
)

// AssessmentGeneratorPort triggers assessment generation for a completed
// course on the external assessment service.
type AssessmentGeneratorPort interface {
	GenerateAssessments(ctx context.Context, courseID uuid.UUID) error
}

// TutorInitializerPort initializes the AI-tutor context for a completed
// course.
type TutorInitializerPort interface {
	InitializeTutor(ctx context.Context, courseID uuid.UUID) error
}
