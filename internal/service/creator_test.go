package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/iynfluencer/creator-service/internal/domain/auth"
	"github.com/iynfluencer/creator-service/internal/domain/model"
	"github.com/iynfluencer/creator-service/internal/domain/query"
	apperrors "github.com/iynfluencer/creator-service/internal/errors"
	"github.com/iynfluencer/creator-service/internal/mocks"
	"github.com/iynfluencer/creator-service/internal/mocks/memory"
	"github.com/iynfluencer/creator-service/internal/testutil"
)

type creatorFixture struct {
	store  *memory.Store
	hooks  *memory.Hooks
	repo   *memory.CreatorRepo
	events *mocks.MockEventPublisher
	svc    *CreatorService
}

func newCreatorFixture(t *testing.T) *creatorFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	store := memory.NewStore()
	hooks := &memory.Hooks{}
	f := &creatorFixture{
		store:  store,
		hooks:  hooks,
		repo:   memory.NewCreatorRepo(store, hooks),
		events: mocks.NewMockEventPublisher(ctrl),
	}
	f.svc = MustNewCreatorService(CreatorServiceOptions{
		Repo:   f.repo,
		Tx:     memory.NewTransactor(store),
		Events: f.events,
		Now:    testutil.TestTime,
	})
	return f
}

func putCreator(f *creatorFixture, id, userID string, suspended bool, niche ...string) {
	f.store.PutCreator(model.Creator{
		CreatorID: id,
		UserID:    userID,
		Niche:     niche,
		Suspended: suspended,
		CreatedAt: testutil.TestTime(),
	})
}

func TestCreatorService_Create(t *testing.T) {
	t.Parallel()
	f := newCreatorFixture(t)
	f.store.PutUser("user-1")

	f.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	creator, err := f.svc.Create(context.Background(), domainauth.Identity{UserID: "user-1"}, testutil.NewCreatorRequest("tech", "food"))
	require.NoError(t, err)
	assert.NotEmpty(t, creator.CreatorID)
	assert.True(t, creator.Completed)
	assert.Equal(t, creator.CreatorID, f.store.UserCreatorID("user-1"))
}

func TestCreatorService_Create_Failures(t *testing.T) {
	t.Parallel()

	t.Run("second profile for the same user conflicts", func(t *testing.T) {
		t.Parallel()
		f := newCreatorFixture(t)
		putCreator(f, "c-0", "user-1", false)

		_, err := f.svc.Create(context.Background(), domainauth.Identity{UserID: "user-1"}, testutil.NewCreatorRequest())
		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("link failure rolls back the insert", func(t *testing.T) {
		t.Parallel()
		f := newCreatorFixture(t)
		f.store.PutUser("user-1")
		f.hooks.FailLinkUser = true

		_, err := f.svc.Create(context.Background(), domainauth.Identity{UserID: "user-1"}, testutil.NewCreatorRequest())
		require.Error(t, err)
		assert.True(t, apperrors.IsTransaction(err))
		assert.Equal(t, createCreatorFailedMessage, apperrors.PublicMessage(err))

		n, _ := f.repo.Count(context.Background())
		assert.Zero(t, n)
		assert.Empty(t, f.store.UserCreatorID("user-1"))
	})

	t.Run("anonymous caller", func(t *testing.T) {
		t.Parallel()
		f := newCreatorFixture(t)
		_, err := f.svc.Create(context.Background(), domainauth.Identity{}, testutil.NewCreatorRequest())
		assert.True(t, apperrors.IsUnauthorized(err))
	})
}

func TestCreatorService_GetMeAndSuspension(t *testing.T) {
	t.Parallel()
	f := newCreatorFixture(t)
	ctx := context.Background()
	putCreator(f, "c-1", "user-1", false)
	putCreator(f, "c-2", "user-2", true)

	me, err := f.svc.GetMe(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", me.UserID)

	_, err = f.svc.GetMe(ctx, "missing")
	assert.Equal(t, "Creator Not Found", apperrors.PublicMessage(err))

	_, err = f.svc.EnsureNotSuspended(ctx, "c-2")
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
	assert.Equal(t, "You have been suspended!", apperrors.PublicMessage(err))

	bio := "new bio"
	_, err = f.svc.Update(ctx, "c-2", &model.UpdateCreatorRequest{Bio: &bio})
	assert.True(t, apperrors.IsForbidden(err))

	updated, err := f.svc.Update(ctx, "c-1", &model.UpdateCreatorRequest{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, bio, updated.Bio)
}

func TestCreatorService_Exists(t *testing.T) {
	t.Parallel()
	f := newCreatorFixture(t)
	ctx := context.Background()
	putCreator(f, "c-1", "user-1", false)

	_, err := f.svc.Exists(ctx, "")
	assert.True(t, apperrors.IsForbidden(err))

	_, err = f.svc.Exists(ctx, "ghost")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, "Creator not found", apperrors.PublicMessage(err))

	c, err := f.svc.Exists(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "c-1", c.CreatorID)
}

func TestCreatorService_PublicReads(t *testing.T) {
	t.Parallel()
	f := newCreatorFixture(t)
	ctx := context.Background()
	putCreator(f, "c-1", "user-1", false, "tech")
	putCreator(f, "c-2", "user-1", true, "food")
	putCreator(f, "c-3", "user-3", false, "food")

	doc, err := f.svc.GetOne(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "c-1", doc["creatorId"])
	assert.Equal(t, "user", f.repo.LastRequest().Populate[0].Relation)

	_, err = f.svc.GetOne(ctx, "c-2")
	assert.True(t, apperrors.IsNotFound(err), "suspended creators are hidden")

	mine, err := f.svc.ListByUser(ctx, "user-1", defaultParams())
	require.NoError(t, err)
	assert.Equal(t, int64(1), mine.TotalDocs)
}

func TestCreatorService_List_NicheBecomesIn(t *testing.T) {
	t.Parallel()
	f := newCreatorFixture(t)
	putCreator(f, "c-1", "user-1", false, "tech")
	putCreator(f, "c-2", "user-2", false, "food")
	putCreator(f, "c-3", "user-3", false, "travel")

	params := defaultParams()
	params.Filter = query.FilterMap{"niche": []any{"tech", "travel"}}

	page, err := f.svc.List(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalDocs)

	req := f.repo.LastRequest()
	assert.NotContains(t, req.Params.Filter, "niche")
	assert.Equal(t, map[string]any{"$in": []string{"tech", "travel"}}, req.Where["niche"])
	assert.Contains(t, params.Filter, "niche", "caller's filter must not be mutated")
}

func TestCreatorService_AdminList(t *testing.T) {
	t.Parallel()
	f := newCreatorFixture(t)
	putCreator(f, "c-1", "user-1", false)
	putCreator(f, "c-2", "user-2", true)

	params := defaultParams()
	params.Limit = 1
	page, err := f.svc.AdminList(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalAmount)
	assert.Len(t, page.Page.Docs, 1)
}
