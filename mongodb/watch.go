package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"rapid-steno/crm-sync/logger"
	"rapid-steno/crm-sync/models"
)

type changeEvent struct {
	OperationType string `bson:"operationType"`
	DocumentKey   struct {
		ID bson.ObjectID `bson:"_id"`
	} `bson:"documentKey"`
}

// Watch subscribes to inserts, replaces, and updates that touch the
// visitedPages field, re-fetches the full document for each event, and hands
// it to handler. Events are processed one at a time in arrival order; a
// handler error is logged and the stream moves on.
//
// Watch blocks until ctx is cancelled or the stream breaks. The stream is
// closed before Watch returns, so the caller's deferred Close on the Source
// runs strictly after it.
func (s *Source) Watch(ctx context.Context, handler func(context.Context, *models.SourceUser) error) error {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"$or": bson.A{
				bson.M{"operationType": bson.M{"$in": bson.A{"insert", "replace"}}},
				bson.M{
					"operationType": "update",
					"updateDescription.updatedFields.visitedPages": bson.M{"$exists": true},
				},
			},
		}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	stream, err := s.users().Watch(ctx, pipeline, opts)
	if err != nil {
		return fmt.Errorf("error opening change stream: %v", err)
	}
	defer stream.Close(context.Background())

	logger.Get().Info("watching users collection for changes",
		zap.String("database", s.database),
		zap.String("collection", s.collection))

	for stream.Next(ctx) {
		var event changeEvent
		if err := stream.Decode(&event); err != nil {
			logger.Get().Error("failed to decode change event", zap.Error(err))
			continue
		}

		user, err := s.FetchUserByID(ctx, event.DocumentKey.ID)
		if err != nil {
			logger.Get().Error("failed to re-fetch changed user",
				zap.String("id", event.DocumentKey.ID.Hex()),
				zap.String("operation", event.OperationType),
				zap.Error(err))
			continue
		}

		if err := handler(ctx, user); err != nil {
			logger.Get().Error("failed to sync changed user",
				zap.String("id", event.DocumentKey.ID.Hex()),
				zap.Error(err))
		}
	}

	if err := stream.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("change stream error: %v", err)
	}
	return nil
}
