package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"rapid-steno/crm-sync/models"
)

// InsertActivity inserts one page-visit row. The table's unique index on
// (lead_id, page_name, visit_date, time_spent) rejects re-synced rows; that
// rejection is surfaced as a ConflictError, which callers treat as benign.
func (s *Store) InsertActivity(ctx context.Context, rec *models.ActivityRecord) error {
	query := `
		INSERT INTO lead_activities (
			lead_id, page_name, time_spent, view_count, visit_date,
			total_active_time, total_pages_viewed, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, now())
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.LeadID, rec.PageName, rec.TimeSpent, rec.ViewCount,
		rec.VisitDate, rec.TotalActiveTime, rec.TotalPagesViewed,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == models.UniqueViolationCode {
			return &models.ConflictError{
				Resource: "activity",
				Key:      fmt.Sprintf("%s/%s", rec.PageName, rec.VisitDate.Format("2006-01-02")),
			}
		}
		return fmt.Errorf("error inserting activity %s for lead %s: %v", rec.PageName, rec.LeadID, err)
	}
	return nil
}
