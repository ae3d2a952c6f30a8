package security

import (
	"context"
	"sync"
)

// FeatureFlagProvider provides feature flag evaluation.
// Abstraction allows different backends: in-memory, Redis, LaunchDarkly, etc.
type FeatureFlagProvider interface {
	// IsEnabled checks if feature is enabled for the given tenant.
	IsEnabled(ctx context.Context, businessID, flag string) bool
}

// Feature flag names (constants for type safety)
const (
	// FlagLoginEnabled is the tenant-scoped login toggle checked before
	// authorization. A business with login disabled rejects all sign-ins.
	FlagLoginEnabled = "login_enabled"

	FlagTrendReports = "trend_reports"
)

// InMemoryFlags is a simple in-memory feature flag provider.
// Flags default to enabled unless explicitly switched off for a tenant.
type InMemoryFlags struct {
	mu       sync.RWMutex
	disabled map[string]map[string]bool // businessID -> flag -> disabled
}

// NewInMemoryFlags creates an in-memory flag provider.
func NewInMemoryFlags() *InMemoryFlags {
	return &InMemoryFlags{
		disabled: make(map[string]map[string]bool),
	}
}

func (f *InMemoryFlags) IsEnabled(ctx context.Context, businessID, flag string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if flags, ok := f.disabled[businessID]; ok {
		return !flags[flag]
	}
	return true
}

// Disable switches a flag off for a tenant.
func (f *InMemoryFlags) Disable(businessID, flag string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disabled[businessID] == nil {
		f.disabled[businessID] = make(map[string]bool)
	}
	f.disabled[businessID][flag] = true
}

// Enable switches a flag back on for a tenant.
func (f *InMemoryFlags) Enable(businessID, flag string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if flags, ok := f.disabled[businessID]; ok {
		delete(flags, flag)
	}
}
