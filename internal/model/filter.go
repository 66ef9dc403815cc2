package model

// TaskFilter holds criteria for querying tasks.
type TaskFilter struct {
	Status     []Status `json:"status,omitempty"`
	Priority   *int     `json:"priority,omitempty"`
	Assignee   string   `json:"assignee,omitempty"`
	CategoryID string   `json:"category_id,omitempty"`
	Search     string   `json:"search,omitempty"` // substring search on title/description
	Sort       string   `json:"sort,omitempty"`   // e.g. "-priority", "created_at"; prefix "-" = descending
	Limit      int      `json:"limit,omitempty"`
	Offset     int      `json:"offset,omitempty"`
}
