package data

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iynfluencer/creator-service/internal/domain/model"
	"github.com/iynfluencer/creator-service/internal/domain/query"
	apperrors "github.com/iynfluencer/creator-service/internal/errors"
)

// Collection names.
const (
	CollectionJobs     = "jobs"
	CollectionHires    = "hireds"
	CollectionBids     = "bids"
	CollectionCreators = "creators"
	CollectionUsers    = "users"
)

// collection carries what every repository needs: the collection, the listing
// planner and a clock. Its List and Get methods satisfy core.Lister.
type collection struct {
	coll         *mongo.Collection
	builder      *query.Builder
	timeProvider TimeProvider
}

func newCollection(db *mongo.Database, name string, builder *query.Builder) collection {
	if builder == nil {
		builder = query.NewBuilder(query.BuilderOptions{})
	}
	return collection{
		coll:         db.Collection(name),
		builder:      builder,
		timeProvider: &RealTimeProvider{},
	}
}

// List plans req and returns one page of documents.
func (c collection) List(ctx context.Context, req query.Request) (*model.Page[model.Document], error) {
	plan, err := c.builder.Build(req)
	if err != nil {
		return nil, err
	}
	return AggregatePage[model.Document](ctx, c.coll, plan)
}

// Get returns the first document matching where, populated.
func (c collection) Get(
	ctx context.Context,
	where query.FilterMap,
	populate []query.PopulateNode,
) (model.Document, error) {
	pipeline, err := c.builder.One(where, populate)
	if err != nil {
		return nil, err
	}
	cur, err := c.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("aggregate %s: %w", c.coll.Name(), err))
	}
	var docs []model.Document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("decode %s: %w", c.coll.Name(), err))
	}
	if len(docs) == 0 {
		return nil, apperrors.MapDBError(mongo.ErrNoDocuments)
	}
	return docs[0], nil
}

func (c collection) now() time.Time {
	return c.timeProvider.Now()
}
