package store

import "sync"

// CompanyLocks serializes read-modify-write cycles per company key so two
// in-process pipeline runs against the same company cannot interleave their
// blob writes. Cross-process writers still race (last write wins).
type CompanyLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func NewCompanyLocks() *CompanyLocks {
	return &CompanyLocks{m: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for slug and returns its unlock func.
func (l *CompanyLocks) Lock(slug string) func() {
	l.mu.Lock()
	cm, ok := l.m[slug]
	if !ok {
		cm = &sync.Mutex{}
		l.m[slug] = cm
	}
	l.mu.Unlock()

	cm.Lock()
	return cm.Unlock
}
