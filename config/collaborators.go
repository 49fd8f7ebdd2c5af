package config

import (
	"fmt"
	"os"
)

type CollaboratorsConfig struct {
	AssessmentApiUrl string
	TutorApiUrl      string
}

func GetCollaboratorsConfig() (*CollaboratorsConfig, error) {
	assessmentApiUrl := os.Getenv("ASSESSMENT_API_URL")
	if assessmentApiUrl == "" {
		return nil, fmt.Errorf("ASSESSMENT_API_URL must be set")
	}
	tutorApiUrl := os.Getenv("TUTOR_API_URL")
	if tutorApiUrl == "" {
		return nil, fmt.Errorf("TUTOR_API_URL must be set")
	}
	return &CollaboratorsConfig{
		AssessmentApiUrl: assessmentApiUrl,
		TutorApiUrl:      tutorApiUrl,
	}, nil
}
