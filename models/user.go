package models

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// SourceUser is one document from the registration system's users collection.
// The collection has been written by several generations of producers that
// never agreed on field names or types, so every field the sync has ever seen
// is declared here under all of its spellings. Date, amount and flag fields
// are decoded as `any` because producers stored them variously as BSON dates,
// ISO strings and numbers; mapper owns the coercion rules.
type SourceUser struct {
	ID    bson.ObjectID `bson:"_id,omitempty"`
	Email string        `bson:"email,omitempty"`

	Name          string `bson:"name,omitempty"`
	FirstName     string `bson:"firstName,omitempty"`
	FirstNameOld  string `bson:"first_name,omitempty"`
	LastName      string `bson:"lastName,omitempty"`
	LastNameOld   string `bson:"last_name,omitempty"`
	Phone         string `bson:"phone,omitempty"`
	PhoneNumber   string `bson:"phoneNumber,omitempty"`
	State         string `bson:"state,omitempty"`
	Gender        string `bson:"gender,omitempty"`
	ExamCategory  string `bson:"examCategory,omitempty"`
	ExamCatOld    string `bson:"exam_category,omitempty"`
	HowDidYouHear string `bson:"howDidYouHear,omitempty"`
	ReferralOld   string `bson:"how_did_you_hear,omitempty"`

	Plan            string `bson:"plan,omitempty"`
	PlanName        string `bson:"planName,omitempty"`
	SubPlan         string `bson:"subscriptionPlan,omitempty"`
	SubPlanOld      string `bson:"subscription_plan,omitempty"`
	SoftwareVersion string `bson:"softwareVersion,omitempty"`
	SoftwareVerOld  string `bson:"software_version,omitempty"`

	AmountPaid    any `bson:"amountPaid,omitempty"`
	AmountPaidOld any `bson:"amount_paid,omitempty"`
	TotalPaid     any `bson:"totalPaid,omitempty"`

	TrialStart    any `bson:"trialStartDate,omitempty"`
	TrialStartOld any `bson:"trial_start_date,omitempty"`
	TrialEnd      any `bson:"trialEndDate,omitempty"`
	TrialEndOld   any `bson:"trial_end_date,omitempty"`
	SubStart      any `bson:"subscriptionStartDate,omitempty"`
	SubStartOld   any `bson:"subscription_start_date,omitempty"`
	SubEnd        any `bson:"subscriptionEndDate,omitempty"`
	SubEndOld     any `bson:"subscription_end_date,omitempty"`

	IsTrialActive any `bson:"isTrialActive,omitempty"`
	IsSubActive   any `bson:"isSubscriptionActive,omitempty"`

	CreatedAt    any `bson:"createdAt,omitempty"`
	CreatedAtOld any `bson:"created_at,omitempty"`

	VisitedPages []DailyActivity `bson:"visitedPages,omitempty"`
}

// DailyActivity is one day's worth of page visits inside a SourceUser.
type DailyActivity struct {
	Date       any         `bson:"date,omitempty"`
	PageVisits []PageVisit `bson:"pageVisits,omitempty"`
}

// PageVisit is a single page entry. TimeSpent is seconds on the source side.
type PageVisit struct {
	PageName  string `bson:"pageName,omitempty"`
	TimeSpent any    `bson:"timeSpent,omitempty"`
	ViewCount any    `bson:"viewCount,omitempty"`
}
