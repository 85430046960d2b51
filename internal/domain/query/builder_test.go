package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "github.com/iynfluencer/creator-service/internal/errors"
)

func matchOf(t *testing.T, p mongo.Pipeline) map[string]any {
	t.Helper()
	require.Equal(t, "$match", p[0][0].Key)
	m, ok := p[0][0].Value.(map[string]any)
	require.True(t, ok)
	return m
}

func TestBuild_StageOrder(t *testing.T) {
	params, err := Normalize(map[string]any{
		"page":  "3",
		"limit": "10",
		"sort":  "price,-age",
		"price": map[string]any{"gt": 5},
	}, true)
	require.NoError(t, err)

	plan, err := NewBuilder(BuilderOptions{}).Build(Request{
		Params:   params,
		Populate: []PopulateNode{{Relation: "bidsCount"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"$match", "$lookup", "$addFields", "$sort", "$skip", "$limit"}, stageNames(plan.Data))
	assert.Equal(t, map[string]any{"price": map[string]any{"$gt": int64(5)}}, matchOf(t, plan.Data))
	assert.Equal(t, bson.D{{Key: "price", Value: 1}, {Key: "age", Value: -1}, {Key: "createdAt", Value: -1}}, plan.Data[3][0].Value)
	assert.Equal(t, int64(20), plan.Data[4][0].Value)
	assert.Equal(t, int64(10), plan.Data[5][0].Value)

	assert.Equal(t, []string{"$match", "$count"}, stageNames(plan.Count))
	assert.Equal(t, plan.Data[0], plan.Count[0])
	assert.Equal(t, 3, plan.Page)
	assert.Equal(t, 10, plan.Limit)
	assert.Nil(t, plan.Facet)
}

func TestBuild_ReservedKeysNeverReachMatch(t *testing.T) {
	params, err := Normalize(map[string]any{
		"page": 1, "limit": 5, "sort": "x", "select": "a", "search": "b", "hired": false,
	}, true)
	require.NoError(t, err)

	plan, err := NewBuilder(BuilderOptions{}).Build(Request{Params: params})
	require.NoError(t, err)

	match := matchOf(t, plan.Count)
	for key := range match {
		assert.False(t, IsReserved(key), "reserved key %q in $match", key)
	}
}

func TestBuild_WhereWinsAndIsNotTranslated(t *testing.T) {
	plan, err := NewBuilder(BuilderOptions{}).Build(Request{
		Params: Params{Page: 1, Limit: 10, Filter: FilterMap{"creatorId": "someone-else", "title": "Promo"}},
		Where:  FilterMap{"creatorId": "c-1", "status": map[string]any{"in": []string{"a"}}},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"creatorId": "c-1",
		"title":     "Promo",
		"status":    map[string]any{"in": []string{"a"}},
	}, matchOf(t, plan.Data))
}

func TestBuild_InvalidPagination(t *testing.T) {
	b := NewBuilder(BuilderOptions{})
	for _, p := range []Params{{Page: 0, Limit: 10}, {Page: 1, Limit: 0}, {Page: 1, Limit: -3}} {
		_, err := b.Build(Request{Params: p})
		assert.ErrorIs(t, err, ErrInvalidPagination)
		assert.True(t, apperrors.IsValidation(err))
	}
}

func TestBuild_ClampsLimit(t *testing.T) {
	plan, err := NewBuilder(BuilderOptions{MaxLimit: 50}).Build(Request{Params: Params{Page: 2, Limit: 500}})
	require.NoError(t, err)
	assert.Equal(t, 50, plan.Limit)
	assert.Equal(t, []string{"$match", "$sort", "$skip", "$limit"}, stageNames(plan.Data))
	assert.Equal(t, int64(50), plan.Data[3][0].Value)
}

func TestBuild_RejectsOperatorKeys(t *testing.T) {
	_, err := NewBuilder(BuilderOptions{}).Build(Request{
		Params: Params{Page: 1, Limit: 10, Filter: FilterMap{"$where": "sleep(100)"}},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestBuild_PropagatesCompileErrors(t *testing.T) {
	_, err := NewBuilder(BuilderOptions{}).Build(Request{
		Params:   Params{Page: 1, Limit: 10},
		Populate: []PopulateNode{{Relation: "wallet"}},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestBuild_FieldMode(t *testing.T) {
	plan, err := NewBuilder(BuilderOptions{Translator: FieldTranslator{}}).Build(Request{
		Params: Params{Page: 1, Limit: 10, Filter: FilterMap{"status": "in", "price": map[string]any{"lt": 9}}},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"status": "in", "price": map[string]any{"$lt": 9}}, matchOf(t, plan.Data))
}

func TestBuild_Consistent(t *testing.T) {
	plan, err := NewBuilder(BuilderOptions{Consistent: true}).Build(Request{
		Params:   Params{Page: 2, Limit: 5},
		Populate: []PopulateNode{{Relation: "creator", Unwind: Unwind}},
	})
	require.NoError(t, err)

	assert.Nil(t, plan.Data)
	assert.Nil(t, plan.Count)
	assert.Equal(t, []string{"$match", "$facet"}, stageNames(plan.Facet))

	facet, ok := plan.Facet[1][0].Value.(bson.D)
	require.True(t, ok)
	docs, ok := field(facet, "docs").(mongo.Pipeline)
	require.True(t, ok)
	assert.Equal(t, []string{"$lookup", "$unwind", "$sort", "$skip", "$limit"}, stageNames(docs))
	assert.Equal(t, bson.A{bson.D{{Key: "$count", Value: "count"}}}, field(facet, "total"))
}

func TestBuilderOne(t *testing.T) {
	p, err := NewBuilder(BuilderOptions{}).One(FilterMap{"jobId": "j-1"}, []PopulateNode{{Relation: "creator", Unwind: Unwind}})
	require.NoError(t, err)
	assert.Equal(t, []string{"$match", "$limit", "$lookup", "$unwind"}, stageNames(p))
	assert.Equal(t, map[string]any{"jobId": "j-1"}, matchOf(t, p))
}
