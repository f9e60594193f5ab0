// Package model contains domain entities used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Settings is one stored settings document: a server-minted identifier and an
// opaque JSON payload. The payload is kept as raw bytes so key order, nesting
// and numeric representation survive a storage round trip untouched.
type Settings struct {
	ID   uuid.UUID       `json:"id"`
	Data json.RawMessage `json:"data"`
}

// NewSettings mints a fresh random identifier for the given payload.
func NewSettings(data json.RawMessage) Settings {
	return Settings{ID: uuid.New(), Data: data}
}
