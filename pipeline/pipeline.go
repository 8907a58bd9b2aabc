// Package pipeline runs the Reader → Mapper → Upserter sequence: fetch user
// documents, map each one, push leads to the target in fixed-size batches,
// then push each synced lead's activity rows. Execution is strictly
// sequential; the inter-batch delay is a courtesy to the target, not a
// correctness mechanism.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"rapid-steno/crm-sync/logger"
	"rapid-steno/crm-sync/mapper"
	"rapid-steno/crm-sync/models"
)

// Reader produces the source documents for one run.
type Reader interface {
	FetchUsers(ctx context.Context, since *time.Time) ([]models.SourceUser, error)
}

// Target receives normalized records. Implemented by crm.Client (ingest API)
// and db.Store (direct Postgres); both upsert leads by email.
type Target interface {
	UpsertLead(ctx context.Context, lead *models.Lead) (string, error)
	InsertActivity(ctx context.Context, rec *models.ActivityRecord) error
}

type Pipeline struct {
	reader     Reader
	target     Target
	batchSize  int
	batchDelay time.Duration
	now        func() time.Time
}

func New(reader Reader, target Target, batchSize int, batchDelay time.Duration) *Pipeline {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Pipeline{
		reader:     reader,
		target:     target,
		batchSize:  batchSize,
		batchDelay: batchDelay,
		now:        time.Now,
	}
}

// Run executes one full sync. A reader failure aborts the run; everything
// past that point is per-record, so the summary is always produced, even if
// every record failed.
func (p *Pipeline) Run(ctx context.Context, since *time.Time) (*models.SyncSummary, error) {
	users, err := p.reader.FetchUsers(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("error reading source users: %v", err)
	}

	summary := &models.SyncSummary{Total: len(users)}
	logger.Get().Info("starting sync",
		zap.Int("total", len(users)),
		zap.Int("batch_size", p.batchSize))

	for start := 0; start < len(users); start += p.batchSize {
		end := start + p.batchSize
		if end > len(users) {
			end = len(users)
		}

		for i := start; i < end; i++ {
			p.syncOne(ctx, &users[i], summary)
		}

		if end < len(users) && p.batchDelay > 0 {
			time.Sleep(p.batchDelay)
		}
	}

	logger.Get().Info("sync complete",
		zap.Int("total", summary.Total),
		zap.Int("synced", summary.Synced),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Int("activities_synced", summary.ActivitiesSynced),
		zap.Int("activities_skipped", summary.ActivitiesSkipped),
		zap.Int("activities_failed", summary.ActivitiesFailed))

	return summary, nil
}

// SyncUser maps and upserts a single document. Used by the change-stream
// daemon, which re-processes the whole document on every event.
func (p *Pipeline) SyncUser(ctx context.Context, user *models.SourceUser) (*models.SyncSummary, error) {
	summary := &models.SyncSummary{Total: 1}
	p.syncOne(ctx, user, summary)
	if summary.Failed > 0 {
		return summary, fmt.Errorf("%s", summary.Errors[0])
	}
	return summary, nil
}

// syncOne never returns an error: every outcome lands in the summary and the
// run moves on to the next record.
func (p *Pipeline) syncOne(ctx context.Context, user *models.SourceUser, summary *models.SyncSummary) {
	lead, activities, err := mapper.Map(user, p.now())
	if err != nil {
		if errors.Is(err, mapper.ErrMissingEmail) {
			summary.Skipped++
			logger.Get().Warn("skipping user without email",
				zap.String("id", user.ID.Hex()))
			return
		}
		summary.Failed++
		summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", user.ID.Hex(), err))
		return
	}

	leadID, err := p.target.UpsertLead(ctx, lead)
	if err != nil {
		summary.Failed++
		summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", lead.Email, err))
		logger.Get().Error("failed to upsert lead",
			zap.String("email", lead.Email),
			zap.Error(err))
		return
	}
	summary.Synced++
	logger.Get().Debug("upserted lead",
		zap.String("email", lead.Email),
		zap.String("id", leadID))

	for i := range activities {
		activities[i].LeadID = leadID
		err := p.target.InsertActivity(ctx, &activities[i])
		switch {
		case err == nil:
			summary.ActivitiesSynced++
		case models.IsConflict(err):
			// Already synced on a previous run; the unique index on the
			// natural key is the de-duplication mechanism.
			summary.ActivitiesSkipped++
		default:
			summary.ActivitiesFailed++
			logger.Get().Error("failed to insert activity",
				zap.String("email", lead.Email),
				zap.String("page", activities[i].PageName),
				zap.Error(err))
		}
	}
}
