package models

import "time"

// SubscriptionPlan is the enumerated set the CRM accepts. The leads table has
// a CHECK constraint on this column, so unknown values must never be passed
// through; the mapper substitutes PlanTrial.
type SubscriptionPlan string

const (
	PlanTrial   SubscriptionPlan = "Trial"
	PlanBasic   SubscriptionPlan = "Basic"
	PlanPro     SubscriptionPlan = "Pro"
	PlanPremium SubscriptionPlan = "Premium"
)

// DefaultPlan is substituted for any value outside the allowed set.
const DefaultPlan = PlanTrial

func (p SubscriptionPlan) Valid() bool {
	switch p {
	case PlanTrial, PlanBasic, PlanPro, PlanPremium:
		return true
	}
	return false
}

// Lead is one CRM record, keyed by email. The json tags are the wire format
// of the ingest API and the column names of the leads table.
type Lead struct {
	ID                   string           `json:"id,omitempty"`
	Email                string           `json:"email"`
	FirstName            string           `json:"first_name"`
	LastName             string           `json:"last_name"`
	Name                 string           `json:"name"`
	Phone                string           `json:"phone"`
	State                string           `json:"state"`
	Gender               string           `json:"gender"`
	ExamCategory         string           `json:"exam_category"`
	HowDidYouHear        string           `json:"how_did_you_hear"`
	Plan                 string           `json:"plan"`
	SubscriptionPlan     SubscriptionPlan `json:"subscription_plan"`
	AmountPaid           float64          `json:"amount_paid"`
	IsTrialActive        bool             `json:"is_trial_active"`
	IsSubscriptionActive bool             `json:"is_subscription_active"`
	TrialStartDate       time.Time        `json:"trial_start_date"`
	TrialEndDate         time.Time        `json:"trial_end_date"`
	RegistrationSource   string           `json:"registration_source"`
	SoftwareVersion      string           `json:"software_version"`
	Notes                string           `json:"notes"`
}

// SyncSummary is the outcome of one pipeline run. It is always produced,
// even when every record failed.
type SyncSummary struct {
	Total   int `json:"total"`
	Synced  int `json:"synced"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`

	ActivitiesSynced  int `json:"activities_synced"`
	ActivitiesSkipped int `json:"activities_skipped"`
	ActivitiesFailed  int `json:"activities_failed"`

	Errors []string `json:"errors,omitempty"`
}
