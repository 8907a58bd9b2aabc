package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"rapid-steno/crm-sync/models"
)

// FetchUsers returns every user document, or only those created at/after
// since when it is non-nil. The result is a plain in-memory slice; the
// collection is small enough that paging has never been needed. An empty
// query is an empty slice, not an error.
func (s *Source) FetchUsers(ctx context.Context, since *time.Time) ([]models.SourceUser, error) {
	filter := bson.M{}
	if since != nil {
		filter["createdAt"] = bson.M{"$gte": *since}
	}

	cursor, err := s.users().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching users: %v", err)
	}
	defer cursor.Close(ctx)

	var users []models.SourceUser
	for cursor.Next(ctx) {
		var user models.SourceUser
		if err := cursor.Decode(&user); err != nil {
			return nil, fmt.Errorf("error decoding user: %v", err)
		}
		users = append(users, user)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return users, nil
}

// FetchUserByID re-reads one full document. The change stream hands us only
// the changed fields, so every event is followed by a re-fetch and the whole
// document is mapped again.
func (s *Source) FetchUserByID(ctx context.Context, id bson.ObjectID) (*models.SourceUser, error) {
	var user models.SourceUser
	err := s.users().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("user not found: %s", id.Hex())
		}
		return nil, fmt.Errorf("error fetching user %s: %v", id.Hex(), err)
	}
	return &user, nil
}
