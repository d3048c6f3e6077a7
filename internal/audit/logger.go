package audit

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// Event represents an audit log event.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Action    string    `json:"action"`
	User      string    `json:"user,omitempty"`    // Acting user ID
	Target    string    `json:"target,omitempty"`  // Target resource ID
	Details   string    `json:"details,omitempty"` // Additional details
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"` // Error message if the action failed
}

var auditLogger = log.Output(os.Stdout).With().Str("channel", "audit").Logger()

// Log records an audit event for a security-relevant decision.
func Log(service, action, user, target, details string, success bool, err error) {
	event := Event{
		Timestamp: time.Now().UTC(),
		Service:   service,
		Action:    action,
		User:      user,
		Target:    target,
		Details:   details,
		Success:   success,
	}
	if err != nil {
		event.Error = err.Error()
	}

	auditLogger.Info().
		Interface("event", event).
		Msg("audit")
}
