package index

import (
	"context"
	"fmt"

	"github.com/fwojciec/locallm"
)

// Rebuild runs Build while holding the directory guard. With wait it blocks
// up to the guard's timeout. A guard left behind by a dead process is stolen;
// a live holder yields ETIMEOUT. The guard is released on every exit path.
func (b *Builder) Rebuild(ctx context.Context, dir string, mode locallm.BuildMode, wait bool, progress ProgressFunc) (*locallm.KnowledgeMap, *Result, error) {
	if b.Locks == nil {
		return b.Build(ctx, dir, mode, progress)
	}

	l := b.Locks(dir)
	ok, err := l.Acquire(wait)
	if err != nil {
		return nil, nil, fmt.Errorf("acquiring rebuild lock: %w", err)
	}
	if !ok {
		if l.HeldByOtherProcess() {
			return nil, nil, locallm.Errorf(locallm.ETIMEOUT, "another process is rebuilding the knowledge map in %s", dir)
		}
		b.logger().Warn("removing stale rebuild lock", "dir", dir)
		if err := l.Steal(); err != nil {
			return nil, nil, err
		}
		if ok, err = l.Acquire(false); err != nil {
			return nil, nil, fmt.Errorf("acquiring rebuild lock: %w", err)
		} else if !ok {
			return nil, nil, locallm.Errorf(locallm.ETIMEOUT, "another process is rebuilding the knowledge map in %s", dir)
		}
	}
	defer l.Release()

	return b.Build(ctx, dir, mode, progress)
}
