package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/chronos/internal/store"
)

func ToCSV(tasks []store.Task, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Description", "Category", "Start", "End", "Duration (s)", "Duration", "Impact"}); err != nil {
		return err
	}

	for _, t := range tasks {
		row := []string{
			t.ID,
			t.Description,
			t.Category,
			time.UnixMilli(t.StartTime).Local().Format(time.RFC3339),
			time.UnixMilli(t.EndTime).Local().Format(time.RFC3339),
			fmt.Sprintf("%d", t.Duration),
			formatDuration(t.Duration),
			fmt.Sprintf("%.1f", t.AIImpact),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
