package models

type AlertLevel string

const (
	AlertOK      AlertLevel = "ok"
	AlertWarning AlertLevel = "warning"
	AlertUrgent  AlertLevel = "urgent"
)

// TaskMetrics are the workload figures derived for one backlog item.
// They are recomputed on demand from the item and its time entries,
// never stored independently.
type TaskMetrics struct {
	ActualHours        float64    `json:"actualHours"`
	RemainingHours     float64    `json:"remainingHours"`
	AdvancementPercent float64    `json:"advancementPercent"`
	Alert              AlertLevel `json:"alert"`
}

// WIPAlert signals that a board column holds more non-archived items than
// its configured soft cap. It is a signal for the board, not a block.
type WIPAlert struct {
	Status TaskStatus `json:"status"`
	Count  int        `json:"count"`
	Limit  int        `json:"limit"`
}
