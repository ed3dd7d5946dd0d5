package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/chronos/internal/store"
)

type jsonExport struct {
	ExportedAt string     `json:"exported_at"`
	Account    string     `json:"account"`
	Count      int        `json:"count"`
	Tasks      []jsonTask `json:"tasks"`
}

type jsonTask struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	DurationSec int64   `json:"duration_seconds"`
	Duration    string  `json:"duration"`
	Impact      float64 `json:"impact"`
}

func ToJSON(tasks []store.Task, account, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Account:    account,
		Count:      len(tasks),
	}

	for _, t := range tasks {
		export.Tasks = append(export.Tasks, jsonTask{
			ID:          t.ID,
			Description: t.Description,
			Category:    t.Category,
			StartTime:   time.UnixMilli(t.StartTime).Local().Format(time.RFC3339),
			EndTime:     time.UnixMilli(t.EndTime).Local().Format(time.RFC3339),
			DurationSec: t.Duration,
			Duration:    formatDuration(t.Duration),
			Impact:      t.AIImpact,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
