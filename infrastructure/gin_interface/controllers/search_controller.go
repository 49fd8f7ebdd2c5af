package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/inbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/infrastructure/gin_interface/dto"
)

const (
	defaultSearchThreshold = 0.7
	defaultSearchLimit     = 10
)

type SearchController interface {
	SearchCourse(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type searchController struct {
	logger  outbound.LoggerPort
	llm     outbound.LLMPort
	indexer inbound.EmbeddingIndexerPort
}

func NewSearchController(logger outbound.LoggerPort, llm outbound.LLMPort,
	indexer inbound.EmbeddingIndexerPort) SearchController {
	return &searchController{
		logger:  logger,
		llm:     llm,
		indexer: indexer,
	}
}

// SearchCourse embeds the query text and ranks the course's indexed
// documents against it.
func (s *searchController) SearchCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}

	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Threshold <= 0 {
		req.Threshold = defaultSearchThreshold
	}
	if req.Limit <= 0 {
		req.Limit = defaultSearchLimit
	}

	vector, err := s.llm.Embed(c.Request.Context(), req.Query)
	if err != nil {
		s.logger.Error(err, "failed to embed search query")
		respondError(c, err)
		return
	}

	matches, err := s.indexer.Search(c.Request.Context(), inbound.SearchParams{
		CourseID:  courseID,
		Query:     vector,
		Threshold: req.Threshold,
		Limit:     req.Limit,
	})
	if err != nil {
		s.logger.Error(err, "failed to search course embeddings")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

func (s *searchController) RegisterRoutes(g *gin.Engine) {
	g.POST("/courses/:course_id/search", s.SearchCourse)
}
