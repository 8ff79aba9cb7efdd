package models

import "time"

type ActivityMessage struct {
	EventID     string            `json:"event_id"`
	ClientID    string            `json:"client_id"`
	ServiceName string            `json:"service_name"`
	Action      string            `json:"action"`
	Fingerprint string            `json:"fingerprint,omitempty"`
	ExpiresAt   *time.Time        `json:"expires_at,omitempty"`
	Reason      string            `json:"reason,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// Activity action constants
const (
	ActionLogin    = "login"
	ActionLogout   = "logout"
	ActionExpired  = "expired"
	ActionRestored = "restored"
	ActionPurged   = "purged"
)

// Service name constants
const (
	ServiceSessionManager = "session.manager"
	ServiceSessionHandler = "session.handler"
)
