// Package mapper turns raw registration documents into CRM records. It is
// pure: no I/O, no clock reads — callers pass `now` so the trial window is
// reproducible.
package mapper

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"rapid-steno/crm-sync/models"
)

// TrialDays is the canonical trial length. Earlier sync generations disagreed
// (15 vs 7 days); 15 is the policy now.
const TrialDays = 15

// RegistrationSource tags every lead this pipeline writes, so CRM users can
// tell synced leads from hand-entered ones.
const RegistrationSource = "mongodb_sync"

// ErrMissingEmail marks a document that cannot be mapped because it has no
// email. Callers count these as skips, not failures.
var ErrMissingEmail = errors.New("source document has no email")

// Map resolves one source document into a lead plus its activity drafts.
// Activity drafts carry an empty LeadID; the caller fills it in after the
// lead upsert returns the CRM id.
func Map(u *models.SourceUser, now time.Time) (*models.Lead, []models.ActivityRecord, error) {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	if email == "" {
		return nil, nil, ErrMissingEmail
	}

	firstName := firstNonEmpty(u.FirstName, u.FirstNameOld)
	lastName := firstNonEmpty(u.LastName, u.LastNameOld)

	name := strings.TrimSpace(u.Name)
	if name == "" {
		name = strings.TrimSpace(strings.Join(nonEmpty(firstName, lastName), " "))
	}

	trialStart, ok := firstTime(u.TrialStart, u.TrialStartOld, u.CreatedAt, u.CreatedAtOld)
	if !ok {
		trialStart = now
	}
	trialEnd, ok := firstTime(u.TrialEnd, u.TrialEndOld)
	if !ok {
		trialEnd = trialStart.AddDate(0, 0, TrialDays)
	}

	// The computed window is authoritative; source flags are ignored even
	// when present, so a stale isTrialActive can never leak into the CRM.
	isTrialActive := trialEnd.After(now)

	isSubActive := false
	if subEnd, ok := firstTime(u.SubEnd, u.SubEndOld); ok {
		isSubActive = subEnd.After(now)
	} else if b, ok := asBool(u.IsSubActive); ok {
		isSubActive = b
	}

	lead := &models.Lead{
		Email:                email,
		FirstName:            firstName,
		LastName:             lastName,
		Name:                 name,
		Phone:                firstNonEmpty(u.Phone, u.PhoneNumber),
		State:                strings.TrimSpace(u.State),
		Gender:               strings.TrimSpace(u.Gender),
		ExamCategory:         firstNonEmpty(u.ExamCategory, u.ExamCatOld),
		HowDidYouHear:        firstNonEmpty(u.HowDidYouHear, u.ReferralOld),
		Plan:                 firstNonEmpty(u.Plan, u.PlanName),
		SubscriptionPlan:     resolvePlan(u.SubPlan, u.SubPlanOld, u.Plan, u.PlanName),
		AmountPaid:           firstAmount(u.AmountPaid, u.AmountPaidOld, u.TotalPaid),
		IsTrialActive:        isTrialActive,
		IsSubscriptionActive: isSubActive,
		TrialStartDate:       trialStart,
		TrialEndDate:         trialEnd,
		RegistrationSource:   RegistrationSource,
		SoftwareVersion:      firstNonEmpty(u.SoftwareVersion, u.SoftwareVerOld),
		Notes:                fmt.Sprintf("Synced from MongoDB document %s at %s", u.ID.Hex(), now.UTC().Format(time.RFC3339)),
	}

	return lead, mapActivities(u.VisitedPages), nil
}

func mapActivities(days []models.DailyActivity) []models.ActivityRecord {
	var records []models.ActivityRecord
	for _, day := range days {
		date, ok := asTime(day.Date)
		if !ok {
			// No date means no natural key; the row could never be
			// de-duplicated, so it is dropped.
			continue
		}

		totalMinutes := 0
		pages := 0
		for _, v := range day.PageVisits {
			if strings.TrimSpace(v.PageName) == "" {
				continue
			}
			totalMinutes += toMinutes(v.TimeSpent)
			pages++
		}

		for _, v := range day.PageVisits {
			if strings.TrimSpace(v.PageName) == "" {
				continue
			}
			views := 1
			if f, ok := asFloat(v.ViewCount); ok && f > 0 {
				views = int(f)
			}
			records = append(records, models.ActivityRecord{
				PageName:         strings.TrimSpace(v.PageName),
				TimeSpent:        toMinutes(v.TimeSpent),
				ViewCount:        views,
				VisitDate:        date,
				TotalActiveTime:  totalMinutes,
				TotalPagesViewed: pages,
			})
		}
	}
	return records
}

func resolvePlan(candidates ...string) models.SubscriptionPlan {
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		for _, allowed := range []models.SubscriptionPlan{models.PlanTrial, models.PlanBasic, models.PlanPro, models.PlanPremium} {
			if strings.EqualFold(c, string(allowed)) {
				return allowed
			}
		}
	}
	return models.DefaultPlan
}

// toMinutes converts source seconds to whole minutes by rounding.
func toMinutes(seconds any) int {
	f, ok := asFloat(seconds)
	if !ok || f <= 0 {
		return 0
	}
	return int(math.Round(f / 60))
}

func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if s := strings.TrimSpace(c); s != "" {
			return s
		}
	}
	return ""
}

func nonEmpty(candidates ...string) []string {
	var out []string
	for _, c := range candidates {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

func firstTime(candidates ...any) (time.Time, bool) {
	for _, c := range candidates {
		if t, ok := asTime(c); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func firstAmount(candidates ...any) float64 {
	for _, c := range candidates {
		if f, ok := asFloat(c); ok {
			return f
		}
	}
	return 0
}

// asTime coerces the date representations found in the collection: BSON
// dates, time.Time, RFC 3339 strings and bare YYYY-MM-DD strings.
func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case bson.DateTime:
		return t.Time().UTC(), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

// asFloat coerces the numeric representations found in the collection.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func asBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, false
		}
		return parsed, true
	}
	return false, false
}
