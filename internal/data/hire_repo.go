package data

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iynfluencer/creator-service/internal/core"
	"github.com/iynfluencer/creator-service/internal/domain/model"
	"github.com/iynfluencer/creator-service/internal/domain/query"
	apperrors "github.com/iynfluencer/creator-service/internal/errors"
)

var _ core.HireRepository = (*HireRepo)(nil)

// HireRepo provides database operations for hires.
type HireRepo struct {
	collection
}

// NewHireRepo creates a new HireRepo over the hireds collection.
func NewHireRepo(db *mongo.Database, builder *query.Builder) *HireRepo {
	return &HireRepo{collection: newCollection(db, CollectionHires, builder)}
}

// Create inserts the hire.
func (r *HireRepo) Create(ctx context.Context, hire *model.Hire) error {
	if hire == nil {
		return ErrNilDocument
	}
	if hire.CreatedAt.IsZero() {
		hire.CreatedAt = r.now()
		hire.UpdatedAt = hire.CreatedAt
	}
	res, err := r.coll.InsertOne(ctx, hire)
	if err != nil {
		return apperrors.MapDBError(fmt.Errorf("insert hire: %w", err))
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		hire.ObjectID = oid
	}
	return nil
}

// FindByJobID returns the most recent hire for the job.
func (r *HireRepo) FindByJobID(ctx context.Context, jobID string) (*model.Hire, error) {
	if jobID == "" {
		return nil, ErrIDRequired
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	var hire model.Hire
	if err := r.coll.FindOne(ctx, bson.M{"jobId": jobID}, opts).Decode(&hire); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &hire, nil
}
