package data

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/iynfluencer/creator-service/internal/domain/model"
	"github.com/iynfluencer/creator-service/internal/domain/query"
	apperrors "github.com/iynfluencer/creator-service/internal/errors"
)

type countResult struct {
	Count int64 `bson:"count"`
}

// AggregatePage runs plan against coll and assembles the page envelope.
//
// The data and count reads run concurrently and share no snapshot, so under
// concurrent writes totalDocs may disagree with docs. Plans built with
// Consistent run as a single $facet read instead.
func AggregatePage[T any](ctx context.Context, coll *mongo.Collection, plan query.Plan) (*model.Page[T], error) {
	if plan.Consistent {
		return aggregateFacet[T](ctx, coll, plan)
	}

	var (
		docs  []T
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cur, err := coll.Aggregate(gctx, plan.Data)
		if err != nil {
			return fmt.Errorf("aggregate %s: %w", coll.Name(), err)
		}
		if err := cur.All(gctx, &docs); err != nil {
			return fmt.Errorf("decode %s: %w", coll.Name(), err)
		}
		return nil
	})
	g.Go(func() error {
		cur, err := coll.Aggregate(gctx, plan.Count)
		if err != nil {
			return fmt.Errorf("count %s: %w", coll.Name(), err)
		}
		var counts []countResult
		if err := cur.All(gctx, &counts); err != nil {
			return fmt.Errorf("decode %s count: %w", coll.Name(), err)
		}
		if len(counts) > 0 {
			total = counts[0].Count
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.MapDBError(err)
	}

	return model.NewPage(docs, total, plan.Page, plan.Limit), nil
}

// aggregateFacet computes docs and total in one read. The combined result must
// fit in a single 16MB document.
func aggregateFacet[T any](ctx context.Context, coll *mongo.Collection, plan query.Plan) (*model.Page[T], error) {
	cur, err := coll.Aggregate(ctx, plan.Facet)
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("aggregate %s: %w", coll.Name(), err))
	}

	var out []struct {
		Docs  []T           `bson:"docs"`
		Total []countResult `bson:"total"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("decode %s: %w", coll.Name(), err))
	}
	if len(out) == 0 {
		return nil, ErrNoFacetTotal
	}

	var total int64
	if len(out[0].Total) > 0 {
		total = out[0].Total[0].Count
	}
	return model.NewPage(out[0].Docs, total, plan.Page, plan.Limit), nil
}
