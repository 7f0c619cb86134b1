package digest

import (
	"fmt"

	"github.com/google/uuid"
)

// TriggerKind tells where a fetch request came from.
type TriggerKind int

const (
	TriggerScheduled TriggerKind = iota
	TriggerCommand
	TriggerEvent
	TriggerOnce
)

func (k TriggerKind) String() string {
	switch k {
	case TriggerScheduled:
		return "scheduled"
	case TriggerCommand:
		return "command"
	case TriggerEvent:
		return "event"
	case TriggerOnce:
		return "once"
	default:
		return fmt.Sprintf("trigger(%d)", int(k))
	}
}

// Manual reports whether somebody explicitly asked for the digest.
func (k TriggerKind) Manual() bool {
	return k == TriggerCommand || k == TriggerEvent
}

// Trigger is one request to refresh the digest.
type Trigger struct {
	ID     string
	Kind   TriggerKind
	Source string // command name, event type or cron expression
}

// NewTrigger stamps a trigger with a fresh run ID.
func NewTrigger(kind TriggerKind, source string) Trigger {
	return Trigger{
		ID:     uuid.NewString(),
		Kind:   kind,
		Source: source,
	}
}
