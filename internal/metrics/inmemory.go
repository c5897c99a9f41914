package metrics

import (
	"sync"
	"sync/atomic"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered uint64
	UserLogins      uint64
	TokensRefreshed uint64
	UsersUpdated    uint64
	UsersDeleted    uint64
	ProductsCreated uint64
	ProductsUpdated uint64
	ProductsDeleted uint64
	AuthzDenials    map[string]uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersRegistered uint64
	userLogins      uint64
	tokensRefreshed uint64
	usersUpdated    uint64
	usersDeleted    uint64
	productsCreated uint64
	productsUpdated uint64
	productsDeleted uint64

	mu           sync.Mutex
	authzDenials map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		authzDenials: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	denials := make(map[string]uint64, len(m.authzDenials))
	for rule, count := range m.authzDenials {
		denials[rule] = count
	}
	m.mu.Unlock()

	return Snapshot{
		UsersRegistered: atomic.LoadUint64(&m.usersRegistered),
		UserLogins:      atomic.LoadUint64(&m.userLogins),
		TokensRefreshed: atomic.LoadUint64(&m.tokensRefreshed),
		UsersUpdated:    atomic.LoadUint64(&m.usersUpdated),
		UsersDeleted:    atomic.LoadUint64(&m.usersDeleted),
		ProductsCreated: atomic.LoadUint64(&m.productsCreated),
		ProductsUpdated: atomic.LoadUint64(&m.productsUpdated),
		ProductsDeleted: atomic.LoadUint64(&m.productsDeleted),
		AuthzDenials:    denials,
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncUserLogin increments the login counter.
func (m *InMemoryRecorder) IncUserLogin() {
	atomic.AddUint64(&m.userLogins, 1)
}

// IncTokenRefreshed increments the token refresh counter.
func (m *InMemoryRecorder) IncTokenRefreshed() {
	atomic.AddUint64(&m.tokensRefreshed, 1)
}

// IncUserUpdated increments the user updated counter.
func (m *InMemoryRecorder) IncUserUpdated() {
	atomic.AddUint64(&m.usersUpdated, 1)
}

// IncUserDeleted increments the user deleted counter.
func (m *InMemoryRecorder) IncUserDeleted() {
	atomic.AddUint64(&m.usersDeleted, 1)
}

// IncProductCreated increments the product created counter.
func (m *InMemoryRecorder) IncProductCreated() {
	atomic.AddUint64(&m.productsCreated, 1)
}

// IncProductUpdated increments the product updated counter.
func (m *InMemoryRecorder) IncProductUpdated() {
	atomic.AddUint64(&m.productsUpdated, 1)
}

// IncProductDeleted increments the product deleted counter.
func (m *InMemoryRecorder) IncProductDeleted() {
	atomic.AddUint64(&m.productsDeleted, 1)
}

// IncAuthzDenied counts authorization denials per matched rule.
func (m *InMemoryRecorder) IncAuthzDenied(rule string) {
	m.mu.Lock()
	m.authzDenials[rule]++
	m.mu.Unlock()
}
