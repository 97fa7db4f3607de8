package types

import (
	"fmt"
	"time"
)

// DelayEntry is one categorized delay noted on an issue record.
type DelayEntry struct {
	Code     string `json:"code"`
	Label    string `json:"label"`
	SubCode  string `json:"subCode,omitempty"`
	SubLabel string `json:"subLabel,omitempty"`
	Remarks  string `json:"remarks,omitempty"`
}

// ProductivityIssueEntry is one categorized productivity problem noted
// on an issue record.
type ProductivityIssueEntry struct {
	Code      string `json:"code"`
	Label     string `json:"label"`
	SubOption string `json:"subOption,omitempty"`
	Remarks   string `json:"remarks,omitempty"`
}

// IssueRecord annotates productivity/match-factor samples for one
// excavator hour with delay and productivity findings plus photo
// references.
//
// The singular Delay/Productivity fields and the inline PhotoData field
// are the legacy on-disk shape. Readers go through Delays and
// ProductivityIssues, which treat a singular field as a one-element
// list when the array is absent; writers always persist the array form.
// Inline photo payloads are relocated into the blob store by the
// migrate package.
type IssueRecord struct {
	ID          string    `json:"id"`
	ExcavatorID string    `json:"noExcavator"`
	Timestamp   time.Time `json:"timestamp"`

	DelayEntries        []DelayEntry             `json:"delays,omitempty"`
	ProductivityEntries []ProductivityIssueEntry `json:"productivityIssues,omitempty"`

	// Legacy singular fields, accepted on read indefinitely.
	Delay        *DelayEntry             `json:"delay,omitempty"`
	Productivity *ProductivityIssueEntry `json:"productivity,omitempty"`

	PhotoIDs         []string `json:"photoIds,omitempty"`
	FollowUpPhotoIDs []string `json:"followUpPhotoIds,omitempty"`

	// Legacy inline base64 photo payload, removed by migration.
	PhotoData string `json:"photoData,omitempty"`

	Notes         string `json:"notes,omitempty"`
	FollowUpNotes string `json:"followUpNotes,omitempty"`
}

// Delays returns the delay entries, reading a legacy singular field as
// a one-element list when the array is absent. The record itself is
// never mutated.
func (r *IssueRecord) Delays() []DelayEntry {
	if len(r.DelayEntries) > 0 {
		return r.DelayEntries
	}
	if r.Delay != nil {
		return []DelayEntry{*r.Delay}
	}
	return nil
}

// ProductivityIssues returns the productivity entries, reading a legacy
// singular field as a one-element list when the array is absent.
func (r *IssueRecord) ProductivityIssues() []ProductivityIssueEntry {
	if len(r.ProductivityEntries) > 0 {
		return r.ProductivityEntries
	}
	if r.Productivity != nil {
		return []ProductivityIssueEntry{*r.Productivity}
	}
	return nil
}

// Validate checks that the record carries at least one delay entry and
// one productivity entry with a non-empty category code, in either the
// array or the legacy singular form.
func (r *IssueRecord) Validate() error {
	ok := false
	for _, d := range r.Delays() {
		if d.Code != "" {
			ok = true
			break
		}
	}
	if !ok {
		return ErrMissingDelayEntry
	}
	ok = false
	for _, p := range r.ProductivityIssues() {
		if p.Code != "" {
			ok = true
			break
		}
	}
	if !ok {
		return ErrMissingProductivityEntry
	}
	return nil
}

// NewIssueID derives a unique issue identifier from the creation time.
func NewIssueID(t time.Time) string {
	return fmt.Sprintf("issue-%d", t.UnixNano())
}
