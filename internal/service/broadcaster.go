package service

// Broadcaster pushes session events to WebSocket subscribers (avoids
// import cycle with transport/ws)
type Broadcaster interface {
	BroadcastSessionEvent(userID string, event string, payload interface{})
}
