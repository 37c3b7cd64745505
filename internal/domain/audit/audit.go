package audit

import (
	"time"
)

// Category groups audit entries by the area of the site they touch.
type Category string

const (
	CategoryEvent   Category = "event"
	CategoryMessage Category = "message"
	CategoryAccount Category = "account"
	CategoryExport  Category = "export"
)

// Action is what the admin did.
type Action string

const (
	ActionCreate       Action = "create"
	ActionUpdate       Action = "update"
	ActionStatusChange Action = "status_change"
	ActionDelete       Action = "delete"
	ActionReply        Action = "reply"
	ActionLogin        Action = "login"
	ActionLoginFailed  Action = "login_failed"
	ActionLogout       Action = "logout"
	ActionExport       Action = "export"
	ActionPassword     Action = "password_change"
)

// Event is a single audit log entry.
type Event struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Category     Category  `json:"category"`
	Action       Action    `json:"action"`
	ActorID      string    `json:"actor_id"`
	ActorEmail   string    `json:"actor_email"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id"`
	Description  string    `json:"description"`
	IPAddress    string    `json:"ip_address"`
}

// NewEvent starts an audit entry for an actor.
// PRE: id is unique, action is non-empty
// POST: Returns an Event with the given timestamp and actor
func NewEvent(id string, at time.Time, actorID, actorEmail string, category Category, action Action) Event {
	return Event{
		ID:         id,
		Timestamp:  at,
		Category:   category,
		Action:     action,
		ActorID:    actorID,
		ActorEmail: actorEmail,
	}
}

// WithResource sets the resource the action applied to.
func (e Event) WithResource(resourceType, resourceID string) Event {
	e.ResourceType = resourceType
	e.ResourceID = resourceID
	return e
}

// WithDescription sets a human-readable summary.
func (e Event) WithDescription(desc string) Event {
	e.Description = desc
	return e
}

// WithIP records the client address.
func (e Event) WithIP(ip string) Event {
	e.IPAddress = ip
	return e
}
