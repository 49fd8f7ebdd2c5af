package dto

import "github.com/aniketduttaAD/open-education-backend-sub001/domain"

type GenerateRoadmapRequest struct {
	Prompt      string            `json:"prompt" binding:"required"`
	Constraints map[string]string `json:"constraints"`
}

type EditRoadmapRequest struct {
	Changes []domain.DraftChange `json:"changes" binding:"required,min=1"`
}

type SearchRequest struct {
	Query     string  `json:"query" binding:"required"`
	Threshold float64 `json:"threshold"`
	Limit     int     `json:"limit"`
}
