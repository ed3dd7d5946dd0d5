package store

// Account is a named local profile. Name is the primary key and the
// storage namespace for the account's task and planned-task logs.
type Account struct {
	Name           string   `json:"name"`
	CreatedAt      int64    `json:"createdAt"` // unix milliseconds
	Persona        string   `json:"persona"`
	Categories     []string `json:"categories"`
	DailyFocusGoal int64    `json:"dailyFocusGoal"` // seconds
}

// Task is a completed, timed focus session. Immutable once recorded.
type Task struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	StartTime   int64   `json:"startTime"` // unix milliseconds
	EndTime     int64   `json:"endTime"`   // unix milliseconds
	Duration    int64   `json:"duration"`  // seconds
	Category    string  `json:"category"`
	AIImpact    float64 `json:"aiImpact"` // 1-10 scale
}

// PlannedTask is an uncompleted to-do item.
type PlannedTask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt int64  `json:"createdAt"` // unix milliseconds
}
