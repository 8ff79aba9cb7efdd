package models

import "time"

// Persisted storage keys for the active session.
const (
	KeyToken          = "token"
	KeyExpirationTime = "expirationTime"
)

// StoredValue is the document shape used by the mongo store.
type StoredValue struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}
