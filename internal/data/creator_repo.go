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

var _ core.CreatorRepository = (*CreatorRepo)(nil)

// CreatorRepo provides database operations for creators.
type CreatorRepo struct {
	collection
	users *mongo.Collection
}

// NewCreatorRepo creates a new CreatorRepo. It also writes the link on users.
func NewCreatorRepo(db *mongo.Database, builder *query.Builder) *CreatorRepo {
	return &CreatorRepo{
		collection: newCollection(db, CollectionCreators, builder),
		users:      db.Collection(CollectionUsers),
	}
}

// Create inserts the creator. A second profile for the same user is a Conflict.
func (r *CreatorRepo) Create(ctx context.Context, creator *model.Creator) error {
	if creator == nil {
		return ErrNilDocument
	}
	if creator.CreatedAt.IsZero() {
		creator.CreatedAt = r.now()
		creator.UpdatedAt = creator.CreatedAt
	}
	res, err := r.coll.InsertOne(ctx, creator)
	if err != nil {
		return apperrors.MapDBError(fmt.Errorf("insert creator: %w", err))
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		creator.ObjectID = oid
	}
	return nil
}

// LinkUser sets users.creatorId. A missing user document is not an error.
func (r *CreatorRepo) LinkUser(ctx context.Context, userID, creatorID string) error {
	_, err := r.users.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"creatorId": creatorID}},
	)
	if err != nil {
		return apperrors.MapDBError(fmt.Errorf("link user: %w", err))
	}
	return nil
}

// FindByID loads a creator by ObjectID or creatorId.
func (r *CreatorRepo) FindByID(ctx context.Context, id string) (*model.Creator, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	return r.findOne(ctx, query.ByID("creatorId", id))
}

// FindByUserID loads the creator owned by userID.
func (r *CreatorRepo) FindByUserID(ctx context.Context, userID string) (*model.Creator, error) {
	if userID == "" {
		return nil, ErrIDRequired
	}
	return r.findOne(ctx, bson.M{"userId": userID})
}

// Update sets fields on the creator and returns the updated document.
func (r *CreatorRepo) Update(ctx context.Context, id string, fields map[string]any) (*model.Creator, error) {
	if len(fields) == 0 {
		return r.FindByID(ctx, id)
	}
	set := bson.M{"updatedAt": r.now()}
	for k, v := range fields {
		set[k] = v
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var creator model.Creator
	err := r.coll.FindOneAndUpdate(ctx, query.ByID("creatorId", id), bson.M{"$set": set}, opts).Decode(&creator)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &creator, nil
}

// Count returns the number of creator profiles.
func (r *CreatorRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, apperrors.MapDBError(fmt.Errorf("count creators: %w", err))
	}
	return n, nil
}

func (r *CreatorRepo) findOne(ctx context.Context, filter any) (*model.Creator, error) {
	var creator model.Creator
	if err := r.coll.FindOne(ctx, filter).Decode(&creator); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &creator, nil
}
