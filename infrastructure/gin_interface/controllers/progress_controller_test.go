package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/infrastructure/realtime"
)

type nopLogger struct{}

func (nopLogger) Info(string)                                           {}
func (nopLogger) InfoWithFields(string, map[string]interface{})         {}
func (nopLogger) Error(error, string)                                   {}
func (nopLogger) ErrorWithFields(error, string, map[string]interface{}) {}
func (nopLogger) Debug(string)                                          {}
func (nopLogger) DebugWithFields(string, map[string]interface{})        {}
func (nopLogger) Warn(string)                                           {}
func (nopLogger) WarnWithFields(string, map[string]interface{})         {}

func TestProgressController_StreamWritesEventsAndPingsFromOneGoroutine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	oldInterval := pingInterval
	pingInterval = 5 * time.Millisecond
	defer func() { pingInterval = oldInterval }()

	hub := realtime.NewHub(nopLogger{})
	controller := NewProgressController(nopLogger{}, nil, hub)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	ctx, cancel := context.WithCancel(context.Background())
	c.Request = httptest.NewRequest(http.MethodGet, "/sessions/s1/stream", nil).WithContext(ctx)
	c.Params = gin.Params{{Key: "session_id", Value: "s1"}}

	done := make(chan struct{})
	go func() {
		controller.StreamSessionProgress(c)
		close(done)
	}()

	payload, err := json.Marshal(map[string]int{"percentage": 42})
	if err != nil {
		t.Fatal(err)
	}
	// broadcast a few times so the handler is subscribed for at least one
	for i := 0; i < 20; i++ {
		hub.Broadcast(outbound.RealtimeMessage{
			Channel: "session:s1",
			Event:   "generation:progress",
			Payload: payload,
		})
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream handler did not return after client disconnect")
	}

	body := recorder.Body.String()
	if !strings.Contains(body, "event: generation:progress\ndata: ") {
		t.Errorf("broadcast event not written to stream:\n%s", body)
	}
	if !strings.Contains(body, `"percentage":42`) {
		t.Errorf("event payload missing from stream:\n%s", body)
	}
	if !strings.Contains(body, ": ping\n\n") {
		t.Errorf("keep-alive ping not written by stream handler:\n%s", body)
	}
}
