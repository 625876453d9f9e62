package activity

import "time"

type Action string

const (
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionSaveReport Action = "save_8d"
	ActionFinalize   Action = "finalize_8d"
)

// Activity is one row of an entry's history. Rows outlive the entry they describe.
type Activity struct {
	ID         string    `json:"id"`
	EntryID    string    `json:"entryId"`
	Action     Action    `json:"action"`
	FromStatus string    `json:"fromStatus,omitempty"`
	ToStatus   string    `json:"toStatus,omitempty"`
	Content    string    `json:"content,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
