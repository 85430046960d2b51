package query

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "github.com/iynfluencer/creator-service/internal/errors"
)

// ErrInvalidPagination is returned before any read when page < 1 or limit <= 0.
var ErrInvalidPagination = apperrors.Validation("page must be at least 1 and limit must be positive")

// Request is one listing to plan.
type Request struct {
	Params Params
	// Where is imposed by the server. It is not translated and wins over caller
	// filters on the same key.
	Where    FilterMap
	Populate []PopulateNode
}

// Plan is a ready-to-run listing.
//
// Data and Count are independent reads; under concurrent writes they may see
// different snapshots. When Consistent is set, Facet computes both in one pass
// and Data/Count are nil.
type Plan struct {
	Data       mongo.Pipeline
	Count      mongo.Pipeline
	Facet      mongo.Pipeline
	Consistent bool
	Page       int
	Limit      int
}

// BuilderOptions configures a Builder.
type BuilderOptions struct {
	Registry   *Registry
	Translator Translator
	// MaxLimit clamps caller limits when positive.
	MaxLimit int
	// Consistent selects the single $facet plan.
	Consistent bool
}

// Builder composes listing plans.
type Builder struct {
	compiler   *Compiler
	translator Translator
	maxLimit   int
	consistent bool
}

// NewBuilder returns a Builder. Token translation and the default registry are
// used unless overridden.
func NewBuilder(opts BuilderOptions) *Builder {
	if opts.Translator == nil {
		opts.Translator = TokenTranslator{}
	}
	return &Builder{
		compiler:   NewCompiler(opts.Registry),
		translator: opts.Translator,
		maxLimit:   opts.MaxLimit,
		consistent: opts.Consistent,
	}
}

// Build plans req as match, population, sort, skip, limit plus a count read.
func (b *Builder) Build(req Request) (Plan, error) {
	page, limit := req.Params.Page, req.Params.Limit
	if page < 1 || limit <= 0 {
		return Plan{}, ErrInvalidPagination
	}
	if b.maxLimit > 0 && limit > b.maxLimit {
		limit = b.maxLimit
	}

	match, err := b.match(req.Params.Filter, req.Where)
	if err != nil {
		return Plan{}, err
	}
	populate, err := b.compiler.Compile(req.Populate)
	if err != nil {
		return Plan{}, err
	}

	tail := make(mongo.Pipeline, 0, len(populate)+3)
	tail = append(tail, populate...)
	tail = append(tail,
		bson.D{{Key: "$sort", Value: req.Params.Sort.Document()}},
		bson.D{{Key: "$skip", Value: int64(page-1) * int64(limit)}},
		bson.D{{Key: "$limit", Value: int64(limit)}},
	)

	plan := Plan{Page: page, Limit: limit, Consistent: b.consistent}
	if b.consistent {
		plan.Facet = mongo.Pipeline{
			match,
			bson.D{{Key: "$facet", Value: bson.D{
				{Key: "docs", Value: tail},
				{Key: "total", Value: bson.A{bson.D{{Key: "$count", Value: "count"}}}},
			}}},
		}
		return plan, nil
	}

	plan.Data = append(mongo.Pipeline{match}, tail...)
	plan.Count = mongo.Pipeline{match, bson.D{{Key: "$count", Value: "count"}}}
	return plan, nil
}

// One plans a single-document read: match, population, limit 1.
func (b *Builder) One(where FilterMap, populate []PopulateNode) (mongo.Pipeline, error) {
	stages, err := b.compiler.Compile(populate)
	if err != nil {
		return nil, err
	}
	out := mongo.Pipeline{bson.D{{Key: "$match", Value: map[string]any(where.Clone())}}}
	out = append(out, bson.D{{Key: "$limit", Value: int64(1)}})
	return append(out, stages...), nil
}

func (b *Builder) match(filter, where FilterMap) (bson.D, error) {
	for key := range filter {
		if strings.HasPrefix(key, "$") {
			return nil, apperrors.ValidationField(key, "filter keys cannot be operators")
		}
	}
	translated, err := b.translator.Translate(filter)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid filter")
	}
	merged := translated.Clone()
	for k, v := range where {
		merged[k] = v
	}
	return bson.D{{Key: "$match", Value: map[string]any(merged)}}, nil
}
