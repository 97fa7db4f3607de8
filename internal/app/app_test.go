package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minetrics/pitvault/internal/blobstore"
	"github.com/minetrics/pitvault/internal/recordstore"
	"github.com/minetrics/pitvault/pkg/types"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	records, err := recordstore.Open(afero.NewMemMapFs(), types.Config{DataDir: "/data"})
	require.NoError(t, err)

	blobs := blobstore.NewStore()
	require.NoError(t, blobs.Open(context.Background(), types.Config{DataDir: t.TempDir()}))
	t.Cleanup(func() { blobs.Close() })

	a := New(records, blobs)
	_, err = a.Load(context.Background())
	require.NoError(t, err)
	return a
}

func validIssue(id string) types.IssueRecord {
	return types.IssueRecord{
		ID:                  id,
		ExcavatorID:         "EX0005",
		Timestamp:           time.Date(2025, 5, 20, 9, 15, 0, 0, time.UTC),
		DelayEntries:        []types.DelayEntry{{Code: "D1", Label: "Blasting wait"}},
		ProductivityEntries: []types.ProductivityIssueEntry{{Code: "P1", Label: "Narrow bench"}},
	}
}

func TestAddProductivityPersistsDerivedSample(t *testing.T) {
	a := newTestApp(t)

	sample := types.ProductivitySample{
		ExcavatorID: "EX0001", Trips: 20, HMStart: 10.0, HMEnd: 12.0, BucketCapacity: 12.5,
		Timestamp: time.Date(2025, 5, 20, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, a.AddProductivity(sample))
	require.Len(t, a.Productivity, 1)
	assert.Equal(t, 2.0, a.Productivity[0].Duration)
	assert.Equal(t, 125.0, a.Productivity[0].Productivity)

	// The durable copy matches the cache after a fresh load.
	b := New(a.records, a.blobs)
	_, err := b.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, b.Productivity, 1)
	assert.Equal(t, 125.0, b.Productivity[0].Productivity)
}

func TestAddProductivityRejectsInvalidSample(t *testing.T) {
	a := newTestApp(t)

	sample := types.ProductivitySample{ExcavatorID: "EX0001", Trips: 20, HMStart: 12.0, HMEnd: 10.0, BucketCapacity: 12.5}
	err := a.AddProductivity(sample)
	require.ErrorIs(t, err, types.ErrInvalidHourMeter)
	assert.Empty(t, a.Productivity, "rejected sample must not be stored")
}

func TestSaveIssueAllocatesAndReplacesPhotos(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	saved, err := a.SaveIssue(ctx, validIssue(""), []PhotoUpload{
		{Data: []byte("photo-1"), MimeType: "image/jpeg"},
		{Data: []byte("photo-2"), MimeType: "image/jpeg"},
	}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	require.Len(t, saved.PhotoIDs, 2)
	firstIDs := saved.PhotoIDs

	// Editing with new photos deletes the replaced blobs.
	saved.Notes = "updated"
	edited, err := a.SaveIssue(ctx, saved, []PhotoUpload{{Data: []byte("photo-3"), MimeType: "image/png"}}, nil)
	require.NoError(t, err)
	require.Len(t, edited.PhotoIDs, 1)

	for _, id := range firstIDs {
		_, err := a.blobs.Get(ctx, id)
		assert.ErrorIs(t, err, types.ErrNotFound, "replaced photo %s should be deleted", id)
	}
	blob, err := a.blobs.Get(ctx, edited.PhotoIDs[0])
	require.NoError(t, err)
	assert.Equal(t, saved.ID+types.OwnerSuffixDocumentation, blob.OwnerID)

	// Editing without touching photos keeps the existing ids.
	edited.Notes = "again"
	kept, err := a.SaveIssue(ctx, edited, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, edited.PhotoIDs, kept.PhotoIDs)
	require.Len(t, a.Issues, 1)
	assert.Equal(t, "again", a.Issues[0].Notes)
}

func TestSaveIssuePersistsArrayFormOnly(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	legacy := types.IssueRecord{
		ID:           "issue-legacy",
		ExcavatorID:  "EX0002",
		Delay:        &types.DelayEntry{Code: "D4"},
		Productivity: &types.ProductivityIssueEntry{Code: "P4"},
	}
	saved, err := a.SaveIssue(ctx, legacy, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, saved.Delay)
	assert.Nil(t, saved.Productivity)
	require.Len(t, saved.DelayEntries, 1)
	assert.Equal(t, "D4", saved.DelayEntries[0].Code)
}

func TestSaveIssueRejectsInvalidRecord(t *testing.T) {
	a := newTestApp(t)
	_, err := a.SaveIssue(context.Background(), types.IssueRecord{ExcavatorID: "EX0001"}, nil, nil)
	require.ErrorIs(t, err, types.ErrMissingDelayEntry)
	assert.Empty(t, a.Issues)
}

func TestDeleteIssueRemovesOwnedBlobs(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	saved, err := a.SaveIssue(ctx, validIssue(""),
		[]PhotoUpload{{Data: []byte("doc"), MimeType: "image/jpeg"}},
		[]PhotoUpload{{Data: []byte("follow"), MimeType: "image/jpeg"}})
	require.NoError(t, err)

	require.NoError(t, a.DeleteIssue(ctx, saved.ID))
	assert.Empty(t, a.Issues)

	stats, err := a.blobs.UsageStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Count, "deleting an issue must delete its photos")

	err = a.DeleteIssue(ctx, saved.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestOrphanedIssues(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	linked := validIssue("")
	linked.ExcavatorID = "EX0007"
	linked.Timestamp = time.Date(2025, 5, 20, 14, 0, 0, 0, time.UTC)
	savedLinked, err := a.SaveIssue(ctx, linked, nil, nil)
	require.NoError(t, err)

	orphan := validIssue("")
	orphan.ExcavatorID = "EX0009"
	orphan.Timestamp = time.Date(2025, 5, 20, 14, 0, 0, 0, time.UTC)
	savedOrphan, err := a.SaveIssue(ctx, orphan, nil, nil)
	require.NoError(t, err)

	require.NoError(t, a.AddProductivity(types.ProductivitySample{
		ExcavatorID: "EX0007", Trips: 10, HMStart: 1, HMEnd: 2, BucketCapacity: 10,
		Timestamp: time.Date(2025, 5, 20, 14, 45, 0, 0, time.UTC),
	}))

	orphans := a.OrphanedIssues()
	require.Len(t, orphans, 1)
	assert.Equal(t, savedOrphan.ID, orphans[0].ID)

	related := a.RelatedIssues("EX0007", time.Date(2025, 5, 20, 14, 30, 0, 0, time.UTC))
	require.Len(t, related, 1)
	assert.Equal(t, savedLinked.ID, related[0].ID)
}

func TestBackupRestoreThroughApp(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	_, err := a.SaveIssue(ctx, validIssue(""), []PhotoUpload{{Data: []byte("pic"), MimeType: "image/png"}}, nil)
	require.NoError(t, err)

	doc, err := a.ExportBackup(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Metadata.TotalIssues)
	assert.Equal(t, 1, doc.Metadata.TotalImages)

	b := newTestApp(t)
	summary, err := b.RestoreBackup(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Issues)
	assert.Equal(t, 1, summary.ImagesImported)
	require.Len(t, b.Issues, 1)
}

func TestRestorePastSoftLimitIsReported(t *testing.T) {
	ctx := context.Background()

	records, err := recordstore.Open(afero.NewMemMapFs(), types.Config{DataDir: "/data", SoftLimitBytes: 256})
	require.NoError(t, err)
	blobs := blobstore.NewStore()
	require.NoError(t, blobs.Open(ctx, types.Config{DataDir: t.TempDir()}))
	t.Cleanup(func() { blobs.Close() })

	a := New(records, blobs)
	_, err = a.Load(ctx)
	require.NoError(t, err)

	over, _ := a.OverSoftLimit()
	assert.False(t, over)

	big := validIssue("issue-big")
	big.Notes = strings.Repeat("bench flooding after overnight rain ", 20)
	doc := &types.BackupDocument{IssuesData: []types.IssueRecord{big}}

	_, err = a.RestoreBackup(ctx, doc)
	require.NoError(t, err)

	over, size := a.OverSoftLimit()
	assert.True(t, over, "a restore landing above the threshold must be reported")
	assert.Greater(t, size, int64(256))
}

func TestTransferGuardRejectsReentrancy(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.beginTransfer())
	_, err := a.ExportBackup(context.Background())
	assert.True(t, errors.Is(err, ErrTransferInFlight))
	a.endTransfer()

	_, err = a.ExportBackup(context.Background())
	assert.NoError(t, err)
}

func TestClearAllWipesBothStores(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	_, err := a.SaveIssue(ctx, validIssue(""), []PhotoUpload{{Data: []byte("pic"), MimeType: "image/png"}}, nil)
	require.NoError(t, err)
	require.NoError(t, a.AddMatchFactor(types.MatchFactorSample{HaulerCount: 4, LoaderCycle: 3, HaulerCycle: 12}))

	summary, err := a.Summarize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Issues)
	assert.Equal(t, 1, summary.MatchFactor)
	assert.Equal(t, 1, summary.Photos.Count)

	require.NoError(t, a.ClearAll(ctx))
	assert.Empty(t, a.Issues)
	assert.Empty(t, a.MatchFactor)

	summary, err = a.Summarize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Photos.Count)
}
