package locallm

// ChangeSet lists document paths that changed between two scans.
type ChangeSet struct {
	Added    []string
	Modified []string
	Deleted  []string
}

// Empty reports whether nothing changed.
func (c ChangeSet) Empty() bool {
	return len(c.Added) == 0 && len(c.Modified) == 0 && len(c.Deleted) == 0
}

// Len returns the number of changed paths.
func (c ChangeSet) Len() int {
	return len(c.Added) + len(c.Modified) + len(c.Deleted)
}

// ChangeDetector reports documents that changed since its previous check.
type ChangeDetector interface {
	CheckForChanges() ChangeSet
}
