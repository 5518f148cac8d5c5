package models

// DefaultUsageTotal is the per-session quota shown to students
const DefaultUsageTotal = 1000

// UsageStats counts assistant usage within one session
type UsageStats struct {
	Used  int `json:"used"`
	Total int `json:"total"`
}

// FreshUsage returns the stats every new session starts with
func FreshUsage() UsageStats {
	return UsageStats{Used: 0, Total: DefaultUsageTotal}
}
