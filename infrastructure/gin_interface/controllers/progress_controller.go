package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
	"github.com/aniketduttaAD/open-education-backend-sub001/infrastructure/realtime"
)

type ProgressController interface {
	GetProgress(c *gin.Context)
	StreamCourseProgress(c *gin.Context)
	StreamSessionProgress(c *gin.Context)
	RegisterRoutes(g *gin.Engine, sse gin.HandlerFunc)
}

type progressController struct {
	logger   outbound.LoggerPort
	progress outbound.ProgressRepositoryPort
	hub      *realtime.Hub
}

func NewProgressController(logger outbound.LoggerPort, progress outbound.ProgressRepositoryPort,
	hub *realtime.Hub) ProgressController {
	return &progressController{
		logger:   logger,
		progress: progress,
		hub:      hub,
	}
}

// GetProgress serves the durable record, so a poll works even when no
// realtime consumer was attached during generation.
func (p *progressController) GetProgress(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}
	row, err := p.progress.GetByCourse(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (p *progressController) StreamCourseProgress(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}
	p.stream(c, domain.CourseChannel(courseID.String()))
}

func (p *progressController) StreamSessionProgress(c *gin.Context) {
	p.stream(c, domain.SessionChannel(c.Param("session_id")))
}

// pingInterval paces the keep-alive comments on an idle stream.
var pingInterval = 15 * time.Second

func (p *progressController) stream(c *gin.Context, channel string) {
	sub := p.hub.Subscribe(channel)
	defer p.hub.Unsubscribe(sub)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	clientGone := c.Request.Context().Done()
	for {
		select {
		case <-clientGone:
			return
		case <-ticker.C:
			if _, err := c.Writer.WriteString(": ping\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		case msg, ok := <-sub.Messages:
			if !ok {
				return
			}
			if err := writeEvent(c, msg); err != nil {
				return
			}
		}
	}
}

func writeEvent(c *gin.Context, msg outbound.RealtimeMessage) error {
	data, err := json.Marshal(msg.Payload)
	if err != nil {
		return err
	}
	if _, err := c.Writer.WriteString("event: " + msg.Event + "\ndata: " + string(data) + "\n\n"); err != nil {
		return err
	}
	c.Writer.Flush()
	return nil
}

func (p *progressController) RegisterRoutes(g *gin.Engine, sse gin.HandlerFunc) {
	g.GET("/courses/:course_id/progress", p.GetProgress)
	g.GET("/courses/:course_id/progress/stream", sse, p.StreamCourseProgress)
	g.GET("/sessions/:session_id/stream", sse, p.StreamSessionProgress)
}
