package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"hrportal/internal/platform/querier"
)

// RunLog records each task execution in job_runs.
type RunLog struct {
	DB querier.Querier
}

func NewRunLog(db querier.Querier) *RunLog {
	return &RunLog{DB: db}
}

// Track runs fn and stores its outcome. Recording failures are logged and
// never change the task result.
func (l *RunLog) Track(ctx context.Context, jobType, taskID string, fn func(context.Context) (any, error)) error {
	if l == nil || l.DB == nil {
		_, err := fn(ctx)
		return err
	}

	runID := ""
	if err := l.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, task_id, status)
    VALUES ($1,$2,$3)
    RETURNING id::text
  `, jobType, taskID, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "jobType", jobType, "err", err)
	}

	details, err := fn(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
		details = map[string]any{"error": err.Error(), "result": details}
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := l.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return err
}
