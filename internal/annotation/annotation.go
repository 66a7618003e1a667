// Package annotation implements the per-row, per-category qualification
// state machine for news items: bucket storage, category selection, the
// qualification sequencer, the review editor, and outcome classification.
//
// A Workspace is not safe for concurrent use. Callers serialize commands
// per session so that every command runs to completion before the next.
package annotation

import (
	"context"

	"github.com/JaimeStill/newsqual/internal/options"
)

// BucketName identifies one of the five row collections.
type BucketName string

const (
	Active      BucketName = "active"
	ToBeDecided BucketName = "to_be_decided"
	Deleted     BucketName = "deleted"
	Qualified   BucketName = "qualified"
	Partial     BucketName = "partial"
)

// ParseBucket validates a bucket name.
func ParseBucket(s string) (BucketName, error) {
	switch b := BucketName(s); b {
	case Active, ToBeDecided, Deleted, Qualified, Partial:
		return b, nil
	}
	return "", ErrInvalidBucket
}

// Raw reports whether the bucket holds unannotated rows.
func (b BucketName) Raw() bool {
	return b == Active || b == ToBeDecided || b == Deleted
}

// Disposition selects how Advance removes the current row.
type Disposition string

const (
	ConsumeAndNext  Disposition = "next"
	SendToBeDecided Disposition = "to_be_decided"
	Delete          Disposition = "delete"
)

// ParseDisposition validates a disposition name.
func ParseDisposition(s string) (Disposition, error) {
	switch d := Disposition(s); d {
	case ConsumeAndNext, SendToBeDecided, Delete:
		return d, nil
	}
	return "", ErrInvalidDisposition
}

// Bank supplies the option vocabulary and persists user-added categories.
type Bank interface {
	Options() options.OptionSet
	AddCustomCategory(ctx context.Context, name string) (bool, error)
}

// Observer receives notifications of outcome and disposition events.
type Observer interface {
	Classified(bucket BucketName, category string)
	Disposed(d Disposition, from BucketName)
}

type nopObserver struct{}

func (nopObserver) Classified(BucketName, string) {}
func (nopObserver) Disposed(Disposition, BucketName) {}
