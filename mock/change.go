package mock

import "github.com/fwojciec/locallm"

var _ locallm.ChangeDetector = (*ChangeDetector)(nil)

// ChangeDetector is a mock implementation of locallm.ChangeDetector.
type ChangeDetector struct {
	CheckForChangesFn func() locallm.ChangeSet
}

func (d *ChangeDetector) CheckForChanges() locallm.ChangeSet {
	return d.CheckForChangesFn()
}
