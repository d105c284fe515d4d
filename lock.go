package locallm

// Locker is a cross-process mutual exclusion guard around a rebuild.
type Locker interface {
	// Acquire takes the lock. When blocking it polls until the configured
	// timeout elapses. Reports false if the lock is held elsewhere.
	Acquire(blocking bool) (bool, error)

	// Release gives up the lock. It is safe to call when not held.
	Release()

	// HeldByOtherProcess reports whether the recorded owner is still alive.
	// Returns true when liveness cannot be determined.
	HeldByOtherProcess() bool

	// Steal removes a marker left behind by a dead owner.
	Steal() error
}
