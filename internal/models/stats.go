package models

// HoneypotStats is the aggregate view served to the dashboard.
type HoneypotStats struct {
	TotalConversations int64            `json:"total_conversations"`
	ScamsDetected      int64            `json:"scams_detected"`
	ActiveAgents       int64            `json:"active_agents"`
	TotalTurns         int64            `json:"total_turns"`
	IntelligenceByType map[string]int64 `json:"intelligence_by_type"`
}
