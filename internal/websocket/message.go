package websocket

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	// Client to Server
	MessageTypeSyncState MessageType = "SYNC_STATE"

	// Server to Client
	MessageTypeTimerTick      MessageType = "TIMER_TICK"
	MessageTypeSessionExpired MessageType = "SESSION_EXPIRED"
	MessageTypeError          MessageType = "ERROR"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Server to Client payloads

type TimerTickPayload struct {
	RemainingSeconds int `json:"remainingSeconds"`
}

type SessionExpiredPayload struct{}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	ErrCodeInvalidPayload = "INVALID_PAYLOAD"
	ErrCodeTimerInactive  = "TIMER_INACTIVE"
	ErrCodeSession        = "SESSION_ERROR"
)
