package service

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Stakeholder roles used to key fan-out results.
const (
	RoleBuyer    = "buyer"
	RoleSeller   = "seller"
	RoleCustomer = "customer"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

// PartialFailure aggregates per-recipient errors from a fan-out step.
// It is recorded and logged, never returned to the client: by the time
// fan-out runs, the payment completion has already committed.
type PartialFailure struct {
	mu       sync.Mutex
	failures map[string]error
}

func newPartialFailure() *PartialFailure {
	return &PartialFailure{failures: make(map[string]error)}
}

// record stores a failure under the recipient role. Safe for concurrent use.
func (p *PartialFailure) record(role string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures[role] = err
}

// Failed reports whether role's delivery failed.
func (p *PartialFailure) Failed(role string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.failures[role]
	return ok
}

// Len returns the number of failed recipients.
func (p *PartialFailure) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.failures)
}

// Error formats the failing roles in deterministic order.
func (p *PartialFailure) Error() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	roles := make([]string, 0, len(p.failures))
	for role := range p.failures {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	parts := make([]string, 0, len(roles))
	for _, role := range roles {
		parts = append(parts, fmt.Sprintf("%s: %v", role, p.failures[role]))
	}
	return "partial fan-out failure: " + strings.Join(parts, "; ")
}

// orNil returns nil when no recipient failed, so callers can treat a fully
// successful fan-out as a plain nil error.
func (p *PartialFailure) orNil() error {
	if p.Len() == 0 {
		return nil
	}
	return p
}
