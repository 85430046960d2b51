package data

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iynfluencer/creator-service/internal/core"
	"github.com/iynfluencer/creator-service/internal/domain/model"
	"github.com/iynfluencer/creator-service/internal/domain/query"
	apperrors "github.com/iynfluencer/creator-service/internal/errors"
	"github.com/iynfluencer/creator-service/internal/testutil"
)

func setupDB(t *testing.T) *mongo.Database {
	t.Helper()
	db := testutil.SetupTestMongo(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, EnsureIndexes(ctx, db))
	return db
}

func TestJobRepo_CRUD(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewJobRepoWithTimeProvider(db, nil, NewFixedTimeProvider(testutil.TestTime()))

	job := testutil.NewJob("job-1", "creator-1").Build()
	require.NoError(t, repo.Create(ctx, job))
	assert.False(t, job.ObjectID.IsZero())

	byPublic, err := repo.FindByID(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, "creator-1", byPublic.CreatorID)

	byObject, err := repo.FindByID(ctx, job.ObjectID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "job-1", byObject.JobID)

	updated, err := repo.Update(ctx, "job-1", map[string]any{"title": "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	require.NoError(t, repo.Delete(ctx, "job-1"))
	_, err = repo.FindByID(ctx, "job-1")
	assert.True(t, apperrors.IsNotFound(err))
	assert.True(t, apperrors.IsNotFound(repo.Delete(ctx, "job-1")))
}

func TestJobRepo_MarkHiredIsConditional(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewJobRepo(db, nil)

	require.NoError(t, repo.Create(ctx, testutil.NewJob("job-1", "c").Build()))
	require.NoError(t, repo.Create(ctx, testutil.NewJob("job-2", "c").Suspended().Build()))

	job, err := repo.MarkHired(ctx, core.MarkHiredParams{
		JobID: "job-1", HiredID: "h-1", InfluencerID: "i-1", Paid: true, Amount: 250,
	})
	require.NoError(t, err)
	assert.True(t, job.Hired)
	assert.Equal(t, "h-1", job.HiredID)
	assert.Equal(t, model.JobStatusInProgress, job.Status)
	assert.InDelta(t, 250.0, job.Amount, 0.001)

	_, err = repo.MarkHired(ctx, core.MarkHiredParams{JobID: "job-1", HiredID: "h-2", InfluencerID: "i-2"})
	assert.ErrorIs(t, err, core.ErrJobTaken)

	_, err = repo.MarkHired(ctx, core.MarkHiredParams{JobID: "job-2", HiredID: "h-3", InfluencerID: "i-3"})
	assert.ErrorIs(t, err, core.ErrJobTaken)

	stored, err := repo.FindByID(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, "h-1", stored.HiredID)
}

func TestJobRepo_ConcurrentMarkHiredHasOneWinner(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewJobRepo(db, nil)
	require.NoError(t, repo.Create(ctx, testutil.NewJob("job-1", "c").Build()))

	const racers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.MarkHired(ctx, core.MarkHiredParams{JobID: "job-1", HiredID: model.NewID(), InfluencerID: "i"})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, core.ErrJobTaken, "racer %d", i)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestJobRepo_TransactionalMarkHiredHasOneWinner(t *testing.T) {
	db := setupDB(t)
	testutil.RequireTransactions(t, db)
	ctx := context.Background()
	tx := NewMongoTransactor(db.Client(), nil)
	repo := NewJobRepo(db, nil)
	hires := NewHireRepo(db, nil)
	require.NoError(t, repo.Create(ctx, testutil.NewJob("job-1", "c").Build()))

	const racers = 4
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, racers)
	)
	for i := range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			errs[i] = tx.WithTx(ctx, func(ctx context.Context) error {
				hiredID := model.NewID()
				if err := hires.Create(ctx, &model.Hire{HiredID: hiredID, JobID: "job-1"}); err != nil {
					return err
				}
				_, err := repo.MarkHired(ctx, core.MarkHiredParams{JobID: "job-1", HiredID: hiredID, InfluencerID: "i"})
				return err
			})
		}()
	}
	close(start)
	wg.Wait()

	wins := 0
	for i, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, core.ErrJobTaken, "racer %d", i)
		assert.True(t, apperrors.IsForbidden(err), "racer %d", i)
	}
	assert.Equal(t, 1, wins)

	n, err := db.Collection(CollectionHires).CountDocuments(ctx, bson.M{"jobId": "job-1"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestAggregatePage_PopulateAndCount(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	creators := NewCreatorRepo(db, nil)
	jobs := NewJobRepo(db, nil)

	require.NoError(t, creators.Create(ctx, &model.Creator{CreatorID: "c-1", UserID: "u-1", Niche: []string{"tech"}}))
	_, err := db.Collection(CollectionUsers).InsertOne(ctx, bson.M{"userId": "u-1", "firstName": "Ada"})
	require.NoError(t, err)
	base := testutil.TestTime()
	for i, id := range []string{"j-1", "j-2", "j-3"} {
		job := testutil.NewJob(id, "c-1").Build()
		job.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, jobs.Create(ctx, job))
	}
	_, err = db.Collection(CollectionBids).InsertMany(ctx, []any{
		bson.M{"bidId": "b-1", "jobId": "j-3"},
		bson.M{"bidId": "b-2", "jobId": "j-3"},
	})
	require.NoError(t, err)

	for _, consistent := range []bool{false, true} {
		builder := query.NewBuilder(query.BuilderOptions{Consistent: consistent})
		page, err := NewJobRepo(db, builder).List(ctx, query.Request{
			Params: query.Params{Page: 1, Limit: 2},
			Where:  query.FilterMap{"creatorId": "c-1"},
			Populate: []query.PopulateNode{
				{Relation: "bidsCount"},
				{
					Relation: "creator",
					Project:  []string{"creatorId", "userId"},
					Unwind:   query.Unwind,
					Children: []query.PopulateNode{{Relation: "user", Project: []string{"firstName"}, Unwind: query.Unwind}},
				},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, int64(3), page.TotalDocs)
		assert.Equal(t, 2, page.TotalPages)
		assert.True(t, page.HasNextPage)
		require.Len(t, page.Docs, 2)

		newest := page.Docs[0]
		assert.Equal(t, "j-3", newest["jobId"])
		assert.EqualValues(t, 2, newest["bidsCount"])
		creator, ok := newest["creator"].(bson.M)
		require.True(t, ok, "creator should be an embedded document")
		assert.Equal(t, "c-1", creator["creatorId"])
		user, ok := newest["user"].(bson.M)
		require.True(t, ok, "user should be joined through the creator alias")
		assert.Equal(t, "Ada", user["firstName"])
	}
}

func TestCollectionGet(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewJobRepo(db, nil)
	require.NoError(t, repo.Create(ctx, testutil.NewJob("j-1", "c-1").Build()))

	doc, err := repo.Get(ctx, query.ByID("jobId", "j-1"), []query.PopulateNode{{Relation: "bidsCount"}})
	require.NoError(t, err)
	assert.EqualValues(t, 0, doc["bidsCount"])

	_, err = repo.Get(ctx, query.ByID("jobId", "missing"), nil)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCreatorRepo(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewCreatorRepo(db, nil)

	_, err := db.Collection(CollectionUsers).InsertOne(ctx, bson.M{"userId": "u-1"})
	require.NoError(t, err)

	creator := model.NewCreator("u-1", testutil.NewCreatorRequest(), testutil.TestTime())
	require.NoError(t, repo.Create(ctx, creator))
	require.NoError(t, repo.LinkUser(ctx, "u-1", creator.CreatorID))

	var user bson.M
	require.NoError(t, db.Collection(CollectionUsers).FindOne(ctx, bson.M{"userId": "u-1"}).Decode(&user))
	assert.Equal(t, creator.CreatorID, user["creatorId"])

	dup := model.NewCreator("u-1", testutil.NewCreatorRequest(), testutil.TestTime())
	err = repo.Create(ctx, dup)
	assert.True(t, apperrors.IsConflict(err))
	assert.Equal(t, "userId", apperrors.GetField(err))

	found, err := repo.FindByUserID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, creator.CreatorID, found.CreatorID)

	updated, err := repo.Update(ctx, creator.CreatorID, map[string]any{"niche": []string{"music"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"music"}, updated.Niche)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestBidLedger(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	ledger := NewBidLedger(db)
	bids := db.Collection(CollectionBids)

	_, err := bids.InsertMany(ctx, []any{
		bson.M{"bidId": "b-1", "jobId": "j-1", "status": "pending"},
		bson.M{"bidId": "b-2", "jobId": "j-1", "status": "pending"},
		bson.M{"bidId": "b-3", "jobId": "j-2", "status": "pending"},
	})
	require.NoError(t, err)

	require.NoError(t, ledger.DeclineAll(ctx, "j-1"))
	require.NoError(t, ledger.Accept(ctx, model.BidAcceptance{BidID: "b-1", HiredID: "h-1", PaymentStatus: true}))

	status := func(bidID string) bson.M {
		var doc bson.M
		require.NoError(t, bids.FindOne(ctx, bson.M{"bidId": bidID}).Decode(&doc))
		return doc
	}
	assert.Equal(t, "accepted", status("b-1")["status"])
	assert.Equal(t, true, status("b-1")["paymentStatus"])
	assert.Equal(t, "declined", status("b-2")["status"])
	assert.Equal(t, "pending", status("b-3")["status"])

	assert.True(t, apperrors.IsNotFound(ledger.Accept(ctx, model.BidAcceptance{BidID: "nope"})))
}

func TestMongoTransactor_AbortRollsBack(t *testing.T) {
	db := setupDB(t)
	testutil.RequireTransactions(t, db)
	ctx := context.Background()

	tx := NewMongoTransactor(db.Client(), nil)
	jobs := NewJobRepo(db, nil)
	hires := NewHireRepo(db, nil)
	require.NoError(t, jobs.Create(ctx, testutil.NewJob("j-1", "c-1").Build()))
	_, err := db.Collection(CollectionHires).InsertOne(ctx, bson.M{"hiredId": "seed"})
	require.NoError(t, err)

	boom := errors.New("payment failed")
	err = tx.WithTx(ctx, func(ctx context.Context) error {
		if err := hires.Create(ctx, &model.Hire{HiredID: "h-1", JobID: "j-1"}); err != nil {
			return err
		}
		if _, err := jobs.MarkHired(ctx, core.MarkHiredParams{JobID: "j-1", HiredID: "h-1", InfluencerID: "i"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = hires.FindByJobID(ctx, "j-1")
	assert.True(t, apperrors.IsNotFound(err))
	job, err := jobs.FindByID(ctx, "j-1")
	require.NoError(t, err)
	assert.False(t, job.Hired)

	require.NoError(t, tx.WithTx(ctx, func(ctx context.Context) error {
		return hires.Create(ctx, &model.Hire{HiredID: "h-2", JobID: "j-1"})
	}))
	hire, err := hires.FindByJobID(ctx, "j-1")
	require.NoError(t, err)
	assert.Equal(t, "h-2", hire.HiredID)
}
