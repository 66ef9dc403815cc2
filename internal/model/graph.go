package model

// GraphEdge represents a dependency relationship as a graph edge.
type GraphEdge struct {
	Source string `json:"source"` // the dependent task
	Target string `json:"target"` // the blocking task
}

// GraphStats holds aggregate task counts by status.
type GraphStats struct {
	TotalPending    int `json:"total_pending"`
	TotalInProgress int `json:"total_in_progress"`
	TotalCompleted  int `json:"total_completed"`
	TotalCancelled  int `json:"total_cancelled"`
}

// GraphResponse is the response for the graph visualization endpoint.
type GraphResponse struct {
	Nodes []*Task      `json:"nodes"`
	Edges []*GraphEdge `json:"edges"`
	Stats *GraphStats  `json:"stats"`
}
