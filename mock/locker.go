package mock

import "github.com/fwojciec/locallm"

var _ locallm.Locker = (*Locker)(nil)

// Locker is a mock implementation of locallm.Locker.
type Locker struct {
	AcquireFn            func(blocking bool) (bool, error)
	ReleaseFn            func()
	HeldByOtherProcessFn func() bool
	StealFn              func() error
}

func (l *Locker) Acquire(blocking bool) (bool, error) {
	return l.AcquireFn(blocking)
}

func (l *Locker) Release() {
	l.ReleaseFn()
}

func (l *Locker) HeldByOtherProcess() bool {
	return l.HeldByOtherProcessFn()
}

func (l *Locker) Steal() error {
	return l.StealFn()
}
