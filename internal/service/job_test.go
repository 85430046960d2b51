package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iynfluencer/creator-service/internal/core"
	domainauth "github.com/iynfluencer/creator-service/internal/domain/auth"
	"github.com/iynfluencer/creator-service/internal/domain/model"
	"github.com/iynfluencer/creator-service/internal/domain/query"
	apperrors "github.com/iynfluencer/creator-service/internal/errors"
	"github.com/iynfluencer/creator-service/internal/mocks"
	"github.com/iynfluencer/creator-service/internal/mocks/memory"
	"github.com/iynfluencer/creator-service/internal/testutil"
)

type jobFixture struct {
	store       *memory.Store
	repo        *memory.JobRepo
	hires       *memory.HireRepo
	influencers *mocks.MockInfluencerClient
	events      *mocks.MockEventPublisher
	svc         *JobService
}

func newJobFixture(t *testing.T) *jobFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	store := memory.NewStore()
	f := &jobFixture{
		store:       store,
		repo:        memory.NewJobRepo(store),
		hires:       memory.NewHireRepo(store, nil),
		influencers: mocks.NewMockInfluencerClient(ctrl),
		events:      mocks.NewMockEventPublisher(ctrl),
	}
	f.svc = MustNewJobService(JobServiceOptions{
		Repo:        f.repo,
		Hires:       f.hires,
		Influencers: f.influencers,
		Events:      f.events,
		Now:         testutil.TestTime,
	})
	return f
}

func defaultParams() query.Params {
	return query.Params{Page: 1, Limit: 10}
}

func creatorIdentity() domainauth.Identity {
	return domainauth.Identity{UserID: "user-1", CreatorID: testCreatorID}
}

func TestJobService_Create(t *testing.T) {
	t.Parallel()
	f := newJobFixture(t)

	f.events.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, events ...model.Event) error {
			assert.Equal(t, model.EventJobCreated, events[0].Type)
			return nil
		})

	job, err := f.svc.Create(context.Background(), testCreatorID, testutil.NewJobRequest().Build())
	require.NoError(t, err)
	assert.NotEmpty(t, job.JobID)
	assert.Equal(t, testCreatorID, job.CreatorID)
	assert.Equal(t, model.JobStatusAvailable, job.Status)
	assert.True(t, job.Public)

	stored, ok := f.store.Job(job.JobID)
	require.True(t, ok)
	assert.Equal(t, job.Title, stored.Title)
}

func TestJobService_Create_NilBody(t *testing.T) {
	t.Parallel()
	f := newJobFixture(t)

	_, err := f.svc.Create(context.Background(), testCreatorID, nil)
	assert.True(t, apperrors.IsValidation(err))
}

func TestJobService_Guard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		job       *model.Job
		id        string
		creatorID string
		wantMsg   string
		wantErr   error
	}{
		{name: "open job", job: testutil.NewJob(testJobID, testCreatorID).Build(), id: testJobID, creatorID: testCreatorID},
		{name: "no creator scope", job: testutil.NewJob(testJobID, "other").Build(), id: testJobID},
		{name: "missing", id: "nope", creatorID: testCreatorID, wantMsg: "Job Not Found"},
		{name: "empty id", id: "", wantMsg: "Job Not Found"},
		{
			name: "owned by someone else", job: testutil.NewJob(testJobID, "other").Build(),
			id: testJobID, creatorID: testCreatorID, wantMsg: "Job Not Found",
		},
		{
			name: "suspended", job: testutil.NewJob(testJobID, testCreatorID).Suspended().Build(),
			id: testJobID, creatorID: testCreatorID, wantErr: core.ErrJobSuspended,
		},
		{
			name: "taken", job: testutil.NewJob(testJobID, testCreatorID).HiredBy("i", "h").Build(),
			id: testJobID, creatorID: testCreatorID, wantErr: core.ErrJobTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newJobFixture(t)
			if tt.job != nil {
				f.store.PutJob(*tt.job)
			}

			job, err := f.svc.Guard(context.Background(), tt.id, tt.creatorID)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantMsg != "":
				require.Error(t, err)
				assert.True(t, apperrors.IsNotFound(err))
				assert.Equal(t, tt.wantMsg, apperrors.PublicMessage(err))
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.id, job.JobID)
			}
		})
	}
}

func TestJobService_UpdateAndDelete(t *testing.T) {
	t.Parallel()
	f := newJobFixture(t)
	ctx := context.Background()
	f.store.PutJob(*testutil.NewJob(testJobID, testCreatorID).Build())

	title := "Updated launch"
	updated, err := f.svc.Update(ctx, testJobID, testCreatorID, &model.UpdateJobRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	_, err = f.svc.Update(ctx, testJobID, "other", &model.UpdateJobRequest{Title: &title})
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, f.svc.Delete(ctx, testJobID, testCreatorID))
	_, ok := f.store.Job(testJobID)
	assert.False(t, ok)
}

func TestJobService_Update_HiredJobIsLocked(t *testing.T) {
	t.Parallel()
	f := newJobFixture(t)
	f.store.PutJob(*testutil.NewJob(testJobID, testCreatorID).HiredBy("i", "h").Build())

	err := f.svc.Delete(context.Background(), testJobID, testCreatorID)
	assert.ErrorIs(t, err, core.ErrJobTaken)
	_, ok := f.store.Job(testJobID)
	assert.True(t, ok)
}

func TestJobService_ListOpen(t *testing.T) {
	t.Parallel()
	f := newJobFixture(t)
	ctx := context.Background()

	f.store.PutJob(*testutil.NewJob("open", testCreatorID).Build())
	f.store.PutJob(*testutil.NewJob("taken", testCreatorID).HiredBy("i", "h").Build())

	_, err := f.svc.ListOpen(ctx, creatorIdentity(), defaultParams())
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
	assert.Equal(t, "You must be an influencer to view.", apperrors.PublicMessage(err))

	influencer := domainauth.Identity{UserID: "user-2", InfluencerID: testInfluencerID}
	page, err := f.svc.ListOpen(ctx, influencer, defaultParams())
	require.NoError(t, err)
	require.Len(t, page.Docs, 1)
	assert.Equal(t, "open", page.Docs[0]["jobId"])

	req := f.repo.LastRequest()
	require.Len(t, req.Populate, 3)
	assert.Equal(t, "creator", req.Populate[0].Relation)
	assert.Equal(t, query.Unwind, req.Populate[0].Unwind)
	require.Len(t, req.Populate[0].Children, 1)
	assert.Equal(t, "user", req.Populate[0].Children[0].Relation)
	assert.Equal(t, "bidsCount", req.Populate[1].Relation)
	assert.Equal(t, "bids", req.Populate[2].Relation)
}

func TestJobService_ListForInfluencer(t *testing.T) {
	t.Parallel()
	f := newJobFixture(t)

	f.store.PutJob(*testutil.NewJob("mine", testCreatorID).HiredBy(testInfluencerID, "h1").Build())
	f.store.PutJob(*testutil.NewJob("theirs", testCreatorID).HiredBy("other", "h2").Build())

	influencer := domainauth.Identity{UserID: "user-2", InfluencerID: testInfluencerID}
	page, err := f.svc.ListForInfluencer(context.Background(), influencer, defaultParams())
	require.NoError(t, err)
	require.Len(t, page.Docs, 1)
	assert.Equal(t, "mine", page.Docs[0]["jobId"])
}

func TestJobService_ListAllAndMine(t *testing.T) {
	t.Parallel()
	f := newJobFixture(t)
	ctx := context.Background()

	f.store.PutJob(*testutil.NewJob("a", testCreatorID).Build())
	f.store.PutJob(*testutil.NewJob("b", testCreatorID).Suspended().Build())
	f.store.PutJob(*testutil.NewJob("c", "other").Build())

	all, err := f.svc.ListAll(ctx, defaultParams())
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.TotalDocs)

	mine, err := f.svc.ListMine(ctx, testCreatorID, defaultParams())
	require.NoError(t, err)
	assert.Equal(t, int64(2), mine.TotalDocs)

	populate := f.repo.LastRequest().Populate
	require.Len(t, populate, 4)
	assert.Equal(t, "influencer", populate[3].Relation)
	assert.Equal(t, "user", populate[3].Children[0].Relation)
}

func TestJobService_GetOneAndMine(t *testing.T) {
	t.Parallel()
	f := newJobFixture(t)
	ctx := context.Background()
	f.store.PutJob(*testutil.NewJob(testJobID, testCreatorID).Build())

	doc, err := f.svc.GetOne(ctx, testJobID)
	require.NoError(t, err)
	assert.Equal(t, testJobID, doc["jobId"])

	_, err = f.svc.GetMine(ctx, testJobID, "other")
	require.Error(t, err)
	assert.Equal(t, "Job Not Found", apperrors.PublicMessage(err))

	doc, err = f.svc.GetMine(ctx, testJobID, testCreatorID)
	require.NoError(t, err)
	assert.Equal(t, testCreatorID, doc["creatorId"])
}

func TestJobService_SendJobRequest(t *testing.T) {
	t.Parallel()
	f := newJobFixture(t)
	ctx := context.Background()
	f.store.PutJob(*testutil.NewJob(testJobID, testCreatorID).Build())

	f.influencers.EXPECT().IsSuspended(gomock.Any(), testInfluencerID).Return(false, nil)
	f.influencers.EXPECT().CreateJobRequest(gomock.Any(), model.JobRequestCommand{
		JobID:         testJobID,
		CreatorID:     testCreatorID,
		CreatorUserID: "user-1",
		InfluencerID:  testInfluencerID,
	}).Return(nil)

	err := f.svc.SendJobRequest(ctx, creatorIdentity(), model.SendJobRequest{JobID: testJobID, InfluencerID: testInfluencerID})
	require.NoError(t, err)
}

func TestJobService_SendJobRequest_Rejections(t *testing.T) {
	t.Parallel()

	t.Run("to yourself", func(t *testing.T) {
		t.Parallel()
		f := newJobFixture(t)
		caller := creatorIdentity()
		caller.InfluencerID = testInfluencerID

		err := f.svc.SendJobRequest(context.Background(), caller,
			model.SendJobRequest{JobID: testJobID, InfluencerID: testInfluencerID})
		require.Error(t, err)
		assert.True(t, apperrors.IsForbidden(err))
		assert.Contains(t, apperrors.PublicMessage(err), "send a job request to yourself")
	})

	t.Run("suspended influencer", func(t *testing.T) {
		t.Parallel()
		f := newJobFixture(t)
		f.store.PutJob(*testutil.NewJob(testJobID, testCreatorID).Build())
		f.influencers.EXPECT().IsSuspended(gomock.Any(), testInfluencerID).Return(true, nil)

		err := f.svc.SendJobRequest(context.Background(), creatorIdentity(),
			model.SendJobRequest{JobID: testJobID, InfluencerID: testInfluencerID})
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("hired job", func(t *testing.T) {
		t.Parallel()
		f := newJobFixture(t)
		f.store.PutJob(*testutil.NewJob(testJobID, testCreatorID).HiredBy("x", "h").Build())

		err := f.svc.SendJobRequest(context.Background(), creatorIdentity(),
			model.SendJobRequest{JobID: testJobID, InfluencerID: testInfluencerID})
		assert.ErrorIs(t, err, core.ErrJobTaken)
	})
}

func TestJobService_MarkAsCompleted(t *testing.T) {
	t.Parallel()
	f := newJobFixture(t)
	ctx := context.Background()

	f.store.PutJob(*testutil.NewJob(testJobID, testCreatorID).HiredBy(testInfluencerID, "h1").Build())
	f.store.PutHire(model.Hire{HiredID: "h1", JobID: testJobID, InfluencerID: testInfluencerID, Price: 300})

	f.influencers.EXPECT().MarkComplete(gomock.Any(), model.CompletionNotice{
		InfluencerID: testInfluencerID,
		Amount:       300,
	}).Return(nil)
	f.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	job, err := f.svc.MarkAsCompleted(ctx, testJobID, testCreatorID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCompleted, job.Status)

	_, err = f.svc.MarkAsCompleted(ctx, testJobID, testCreatorID)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, "job already completed", apperrors.PublicMessage(err))
}

func TestJobService_MarkAsCompleted_Rejections(t *testing.T) {
	t.Parallel()

	t.Run("not owned", func(t *testing.T) {
		t.Parallel()
		f := newJobFixture(t)
		f.store.PutJob(*testutil.NewJob(testJobID, "other").Build())

		_, err := f.svc.MarkAsCompleted(context.Background(), testJobID, testCreatorID)
		assert.Equal(t, "Job Not Found", apperrors.PublicMessage(err))
	})

	t.Run("no hire leaves status untouched", func(t *testing.T) {
		t.Parallel()
		f := newJobFixture(t)
		f.store.PutJob(*testutil.NewJob(testJobID, testCreatorID).Build())

		_, err := f.svc.MarkAsCompleted(context.Background(), testJobID, testCreatorID)
		assert.True(t, apperrors.IsNotFound(err))
		job, _ := f.store.Job(testJobID)
		assert.Equal(t, model.JobStatusAvailable, job.Status)
	})

	t.Run("notice failure keeps completion", func(t *testing.T) {
		t.Parallel()
		f := newJobFixture(t)
		f.store.PutJob(*testutil.NewJob(testJobID, testCreatorID).HiredBy(testInfluencerID, "h1").Build())
		f.store.PutHire(model.Hire{HiredID: "h1", JobID: testJobID, InfluencerID: testInfluencerID, Price: 10})
		f.influencers.EXPECT().MarkComplete(gomock.Any(), gomock.Any()).Return(errors.New("influencer service down"))

		_, err := f.svc.MarkAsCompleted(context.Background(), testJobID, testCreatorID)
		require.Error(t, err)
		job, _ := f.store.Job(testJobID)
		assert.Equal(t, model.JobStatusCompleted, job.Status)
	})
}

func TestNewJobService_RequiresDependencies(t *testing.T) {
	t.Parallel()
	_, err := NewJobService(JobServiceOptions{})
	require.Error(t, err)
}
