package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/inbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/infrastructure/gin_interface/dto"
	"github.com/aniketduttaAD/open-education-backend-sub001/middleware"
)

type RoadmapController interface {
	GenerateDraft(c *gin.Context)
	EditDraft(c *gin.Context)
	FinalizeDraft(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type roadmapController struct {
	logger      outbound.LoggerPort
	draftEngine inbound.DraftEnginePort
}

func NewRoadmapController(logger outbound.LoggerPort, draftEngine inbound.DraftEnginePort) RoadmapController {
	return &roadmapController{
		logger:      logger,
		draftEngine: draftEngine,
	}
}

func (r *roadmapController) GenerateDraft(c *gin.Context) {
	var req dto.GenerateRoadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := r.draftEngine.Generate(c.Request.Context(), inbound.GenerateDraftParams{
		TutorID:     middleware.TutorID(c),
		Prompt:      req.Prompt,
		Constraints: req.Constraints,
	})
	if err != nil {
		r.logger.Error(err, "failed to generate draft")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (r *roadmapController) EditDraft(c *gin.Context) {
	var req dto.EditRoadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := r.draftEngine.Edit(c.Request.Context(), inbound.EditDraftParams{
		TutorID: middleware.TutorID(c),
		DraftID: c.Param("draft_id"),
		Changes: req.Changes,
	})
	if err != nil {
		r.logger.Error(err, "failed to edit draft")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (r *roadmapController) FinalizeDraft(c *gin.Context) {
	result, err := r.draftEngine.Finalize(c.Request.Context(), inbound.FinalizeDraftParams{
		TutorID: middleware.TutorID(c),
		DraftID: c.Param("draft_id"),
	})
	if err != nil {
		r.logger.Error(err, "failed to finalize draft")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (r *roadmapController) RegisterRoutes(g *gin.Engine) {
	g.POST("/roadmap/generate", r.GenerateDraft)
	g.PATCH("/roadmap/:draft_id", r.EditDraft)
	g.POST("/roadmap/:draft_id/finalize", r.FinalizeDraft)
}
