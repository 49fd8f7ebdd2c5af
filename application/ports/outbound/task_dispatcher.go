package outbound

// TaskDispatcher abstracts the shared worker pool used for background
// fan-out work (realtime forwarding, SSE heartbeats).
type TaskDispatcher interface {
	Submit(task func()) error
}
