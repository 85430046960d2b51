package data

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IndexSpec lists the indexes of one owned collection.
type IndexSpec struct {
	Collection string
	Models     []mongo.IndexModel
}

func unique(field string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	}
}

func plain(keys ...string) mongo.IndexModel {
	d := make(bson.D, 0, len(keys))
	for _, k := range keys {
		d = append(d, bson.E{Key: k, Value: 1})
	}
	return mongo.IndexModel{Keys: d}
}

// Indexes returns the indexes of the collections this service owns.
// Bids and users belong to other services and are left alone.
func Indexes() []IndexSpec {
	return []IndexSpec{
		{Collection: CollectionJobs, Models: []mongo.IndexModel{
			unique("jobId"),
			plain("creatorId", "createdAt"),
			plain("hired", "suspended", "createdAt"),
		}},
		{Collection: CollectionHires, Models: []mongo.IndexModel{
			unique("hiredId"),
			plain("jobId"),
			plain("creatorId", "createdAt"),
		}},
		{Collection: CollectionCreators, Models: []mongo.IndexModel{
			unique("creatorId"),
			unique("userId"),
		}},
	}
}

// EnsureIndexes creates any missing indexes. Existing identical indexes are a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, spec := range Indexes() {
		if _, err := db.Collection(spec.Collection).Indexes().CreateMany(ctx, spec.Models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", spec.Collection, err)
		}
	}
	return nil
}
