package models

// -----------------------------------------------------------------------------
// Websocket message pushed to presenters
// -----------------------------------------------------------------------------

type MLatestData struct {
	Type      string   `json:"type"` // "INITIAL", "UPDATE" or "ERROR"
	Report    *MReport `json:"report,omitempty"`
	Views     []string `json:"views,omitempty"`
	Error     string   `json:"error,omitempty"`
	Timestamp int64    `json:"timestamp"`
}

// -----------------------------------------------------------------------------
// SubscribeCommand for client messages
// -----------------------------------------------------------------------------

type MSubscribeCommand struct {
	Command string   `json:"command"`
	Views   []string `json:"views"`
}
