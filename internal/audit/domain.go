package audit

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one row of audit_logs.
type Entry struct {
	ID       int64          `json:"id"`
	ActorID  *uuid.UUID     `json:"actor_id"`
	Action   string         `json:"action"`
	Entity   string         `json:"entity"`
	EntityID string         `json:"entity_id"`
	Meta     map[string]any `json:"meta"`
	At       time.Time      `json:"occurred_at"`
}

// Filters narrows the audit timeline.
type Filters struct {
	Actor    *uuid.UUID
	Entity   string
	Action   string
	Page     int
	PageSize int
}

// PagingInfo describes the window returned by Timeline.
type PagingInfo struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	HasNext  bool `json:"has_next"`
	NextPage int  `json:"next_page,omitempty"`
	PrevPage int  `json:"prev_page,omitempty"`
}

// Result wraps a timeline page.
type Result struct {
	Rows   []Entry    `json:"rows"`
	Paging PagingInfo `json:"paging"`
}
