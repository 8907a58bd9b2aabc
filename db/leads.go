package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"rapid-steno/crm-sync/models"
)

// UpsertLead inserts or updates by email and returns the lead's id. Email is
// the unique key, so re-running a sync over unchanged input touches the same
// row every time.
func (s *Store) UpsertLead(ctx context.Context, lead *models.Lead) (string, error) {
	query := `
		INSERT INTO leads (
			id, email, first_name, last_name, name, phone, state, gender,
			exam_category, how_did_you_hear, plan, subscription_plan,
			amount_paid, is_trial_active, is_subscription_active,
			trial_start_date, trial_end_date, registration_source,
			software_version, notes, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, now(), now()
		)
		ON CONFLICT (email) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			state = EXCLUDED.state,
			gender = EXCLUDED.gender,
			exam_category = EXCLUDED.exam_category,
			how_did_you_hear = EXCLUDED.how_did_you_hear,
			plan = EXCLUDED.plan,
			subscription_plan = EXCLUDED.subscription_plan,
			amount_paid = EXCLUDED.amount_paid,
			is_trial_active = EXCLUDED.is_trial_active,
			is_subscription_active = EXCLUDED.is_subscription_active,
			trial_start_date = EXCLUDED.trial_start_date,
			trial_end_date = EXCLUDED.trial_end_date,
			registration_source = EXCLUDED.registration_source,
			software_version = EXCLUDED.software_version,
			notes = EXCLUDED.notes,
			updated_at = now()
		RETURNING id
	`

	var id string
	err := s.db.QueryRowContext(ctx, query,
		uuid.NewString(), lead.Email, lead.FirstName, lead.LastName, lead.Name,
		lead.Phone, lead.State, lead.Gender, lead.ExamCategory, lead.HowDidYouHear,
		lead.Plan, string(lead.SubscriptionPlan), lead.AmountPaid,
		lead.IsTrialActive, lead.IsSubscriptionActive,
		lead.TrialStartDate, lead.TrialEndDate, lead.RegistrationSource,
		lead.SoftwareVersion, lead.Notes,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("error upserting lead %s: %v", lead.Email, err)
	}
	return id, nil
}
