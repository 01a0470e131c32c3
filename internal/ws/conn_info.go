package ws

import "time"

// ConnInfo describes one live connection and the identity resolved for
// it at handshake time.
type ConnInfo struct {
	ConnID      string
	UserID      int
	DisplayName *string
	Handle      *string
	DeviceID    string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}
