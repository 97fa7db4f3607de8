package app

import (
	"context"
	"fmt"
	"time"

	"github.com/minetrics/pitvault/pkg/types"
)

// SaveIssue creates or updates an issue record. Photo blob identifiers
// are allocated here, at save time: a non-nil upload slice replaces
// that slot's photos (the replaced blobs are deleted best-effort), a
// nil slice keeps the existing ones. The persisted record always
// carries the array form of the delay/productivity fields; the legacy
// singular fields are retired on write.
//
// Ordering: new blobs are stored first, old blobs deleted, and the
// record saved last, so a crash mid-save can strand unreferenced blobs
// but never leave the record pointing at deleted ones.
func (a *App) SaveIssue(ctx context.Context, issue types.IssueRecord, docPhotos, followUpPhotos []PhotoUpload) (types.IssueRecord, error) {
	if err := issue.Validate(); err != nil {
		return types.IssueRecord{}, err
	}
	if issue.ID == "" {
		issue.ID = types.NewIssueID(time.Now())
	}

	// Normalize to the array form before persisting.
	issue.DelayEntries = issue.Delays()
	issue.ProductivityEntries = issue.ProductivityIssues()
	issue.Delay = nil
	issue.Productivity = nil

	existingIdx := a.findIssue(issue.ID)
	var stale []string

	if docPhotos != nil {
		if existingIdx >= 0 {
			stale = append(stale, a.Issues[existingIdx].PhotoIDs...)
		}
		ids, err := a.storePhotos(ctx, docPhotos, issue.ID+types.OwnerSuffixDocumentation)
		if err != nil {
			return types.IssueRecord{}, err
		}
		issue.PhotoIDs = ids
	} else if existingIdx >= 0 {
		issue.PhotoIDs = a.Issues[existingIdx].PhotoIDs
	}

	if followUpPhotos != nil {
		if existingIdx >= 0 {
			stale = append(stale, a.Issues[existingIdx].FollowUpPhotoIDs...)
		}
		ids, err := a.storePhotos(ctx, followUpPhotos, issue.ID+types.OwnerSuffixFollowUp)
		if err != nil {
			return types.IssueRecord{}, err
		}
		issue.FollowUpPhotoIDs = ids
	} else if existingIdx >= 0 {
		issue.FollowUpPhotoIDs = a.Issues[existingIdx].FollowUpPhotoIDs
	}

	updated := append([]types.IssueRecord{}, a.Issues...)
	if existingIdx >= 0 {
		updated[existingIdx] = issue
	} else {
		updated = append(updated, issue)
	}
	if err := a.records.Save(types.KeyIssues, updated); err != nil {
		return types.IssueRecord{}, err
	}
	a.Issues = updated

	// Replaced photos go last: a failure here leaves orphan blobs, not
	// dangling references.
	if len(stale) > 0 {
		a.blobs.DeleteMany(ctx, stale)
	}
	a.touchLastUpdate()
	return issue, nil
}

// DeleteIssue removes an issue and its photos. Blobs are deleted
// best-effort before the record so a crash cannot leave the record
// referencing photos that are already gone.
func (a *App) DeleteIssue(ctx context.Context, id string) error {
	idx := a.findIssue(id)
	if idx < 0 {
		return fmt.Errorf("issue %s: %w", id, types.ErrNotFound)
	}

	issue := a.Issues[idx]
	owned := append(append([]string{}, issue.PhotoIDs...), issue.FollowUpPhotoIDs...)
	if len(owned) > 0 {
		a.blobs.DeleteMany(ctx, owned)
	}

	updated := append([]types.IssueRecord{}, a.Issues[:idx]...)
	updated = append(updated, a.Issues[idx+1:]...)
	if err := a.records.Save(types.KeyIssues, updated); err != nil {
		return err
	}
	a.Issues = updated
	a.touchLastUpdate()
	return nil
}

// IssuePhotos resolves an issue's documentation and follow-up photos,
// best-effort: missing blobs are skipped.
func (a *App) IssuePhotos(ctx context.Context, id string) (doc, followUp []*types.PhotoBlob, err error) {
	idx := a.findIssue(id)
	if idx < 0 {
		return nil, nil, fmt.Errorf("issue %s: %w", id, types.ErrNotFound)
	}
	issue := a.Issues[idx]

	doc, err = a.blobs.GetMany(ctx, issue.PhotoIDs)
	if err != nil {
		return nil, nil, err
	}
	followUp, err = a.blobs.GetMany(ctx, issue.FollowUpPhotoIDs)
	if err != nil {
		return nil, nil, err
	}
	return doc, followUp, nil
}

func (a *App) findIssue(id string) int {
	for i := range a.Issues {
		if a.Issues[i].ID == id {
			return i
		}
	}
	return -1
}

func (a *App) storePhotos(ctx context.Context, uploads []PhotoUpload, ownerID string) ([]string, error) {
	ids := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		id, err := a.blobs.Put(ctx, upload.Data, upload.MimeType, ownerID)
		if err != nil {
			return nil, fmt.Errorf("storing photo for %s: %w", ownerID, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
