package models

import "time"

// ActivityRecord is one page-visit row in the CRM, a child of a Lead.
// (LeadID, PageName, VisitDate, TimeSpent) is the natural key; the table's
// unique index on that tuple is what keeps re-syncs from duplicating rows.
type ActivityRecord struct {
	LeadID           string    `json:"user_id"`
	PageName         string    `json:"page_name"`
	TimeSpent        int       `json:"time_spent"` // minutes, converted from source seconds
	ViewCount        int       `json:"view_count"`
	VisitDate        time.Time `json:"visit_date"`
	TotalActiveTime  int       `json:"total_active_time"`  // minutes across the visit day
	TotalPagesViewed int       `json:"total_pages_viewed"` // page entries for the visit day
}
