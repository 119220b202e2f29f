package ws

import "time"

// Config holds WebSocket connection settings
type Config struct {
	// SendBuffer is the per-connection outbound queue length
	SendBuffer int
	// PongWait is how long a connection may stay silent before it is dropped
	PongWait time.Duration
	// WriteWait bounds a single frame write
	WriteWait time.Duration
	// AllowedOrigins restricts the Origin header; empty allows any
	AllowedOrigins []string
	// MaxMessageSize caps inbound frames in bytes
	MaxMessageSize int64
}

// DefaultConfig returns the default connection settings
func DefaultConfig() Config {
	return Config{
		SendBuffer:     256,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 4096,
	}
}

// pingPeriod must stay below PongWait so the peer can answer in time
func (c Config) pingPeriod() time.Duration {
	return (c.PongWait * 9) / 10
}
