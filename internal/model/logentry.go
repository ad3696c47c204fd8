package model

// LogEntry is one line of the append-only audit streams. IP is a pointer so
// an unresolvable client address serializes as null rather than "". The
// username key is omitted entirely when no username could be resolved.
type LogEntry struct {
	TS       string         `json:"ts"`
	Action   string         `json:"action"`
	IP       *string        `json:"ip"`
	Detail   map[string]any `json:"detail"`
	Username string         `json:"username,omitempty"`
}

// EscalationPayload is the body posted to the external ticketing sink for
// failure-indicating entries.
type EscalationPayload struct {
	ShortDescription string `json:"short_description"`
	Description      string `json:"description"`
}
