package numerator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

// Mock objects
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

type mockQuerier struct {
	mu           sync.Mutex
	currentValue int64 // Simulates DB sequence value
	lastKey      string
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(args) > 0 {
		if key, ok := args[0].(string); ok {
			m.lastKey = key
		}
	}

	// Strict passes (key); cached passes (key, increment).
	var increment int64 = 1
	if len(args) == 2 {
		if val, ok := args[1].(int64); ok {
			increment = val
		}
	}

	m.currentValue += increment
	return &mockRow{val: m.currentValue}
}

var testPeriod = time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

func TestGetNextNumber_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("TS")

	num, err := svc.GetNextNumber(ctx, cfg, nil, testPeriod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "TS-2026-00001" {
		t.Errorf("expected TS-2026-00001, got %s", num)
	}

	num, err = svc.GetNextNumber(ctx, cfg, nil, testPeriod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "TS-2026-00002" {
		t.Errorf("expected TS-2026-00002, got %s", num)
	}
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("RC")

	opts := &Options{
		Strategy:  StrategyCached,
		RangeSize: 10,
	}

	// First call reserves 1..10 from the DB, returns 1.
	num, err := svc.GetNextNumber(ctx, cfg, opts, testPeriod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "RC-2026-00001" {
		t.Errorf("expected RC-2026-00001, got %s", num)
	}

	if q.currentValue != 10 {
		t.Errorf("expected DB value to be 10, got %d", q.currentValue)
	}

	// Subsequent calls within the range must not hit the DB.
	for i := 2; i <= 10; i++ {
		num, err = svc.GetNextNumber(ctx, cfg, opts, testPeriod)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if num != "RC-2026-00010" {
		t.Errorf("expected RC-2026-00010, got %s", num)
	}
	if q.currentValue != 10 {
		t.Errorf("expected no extra DB fetch, got %d", q.currentValue)
	}

	// Range exhausted: next call reserves 11..20.
	num, err = svc.GetNextNumber(ctx, cfg, opts, testPeriod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "RC-2026-00011" {
		t.Errorf("expected RC-2026-00011, got %s", num)
	}
	if q.currentValue != 20 {
		t.Errorf("expected DB value to be 20, got %d", q.currentValue)
	}
}

func TestBuildKey_ScopeIsolatesTenants(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()

	cfg := DefaultConfig("TS")
	cfg.Scope = "tenant-a"

	if _, err := svc.GetNextNumber(ctx, cfg, nil, testPeriod); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.lastKey != "tenant-a:TS_2026" {
		t.Errorf("expected key tenant-a:TS_2026, got %s", q.lastKey)
	}

	cfg.Scope = "tenant-b"
	if _, err := svc.GetNextNumber(ctx, cfg, nil, testPeriod); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.lastKey != "tenant-b:TS_2026" {
		t.Errorf("expected key tenant-b:TS_2026, got %s", q.lastKey)
	}
}

func TestBuildKey_ResetPeriods(t *testing.T) {
	svc := New(&mockQuerier{})

	tests := []struct {
		reset string
		want  string
	}{
		{"year", "TS_2026"},
		{"month", "TS_2026_03"},
		{"never", "TS"},
	}

	for _, tt := range tests {
		cfg := DefaultConfig("TS")
		cfg.ResetPeriod = tt.reset
		got := svc.buildKey(cfg, testPeriod)
		if got != tt.want {
			t.Errorf("reset %s: expected %s, got %s", tt.reset, tt.want, got)
		}
	}
}

func TestFormatNumber_NoYear(t *testing.T) {
	svc := New(&mockQuerier{})
	cfg := Config{Prefix: "BZ", PadWidth: 4}

	got := svc.formatNumber(cfg, testPeriod, 42)
	if got != "BZ-0042" {
		t.Errorf("expected BZ-0042, got %s", got)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"TS-2026-00012", 12},
		{"BZ-0042", 42},
		{"garbage", -1},
	}

	for _, tt := range tests {
		if got := ParseNumber(tt.in); got != tt.want {
			t.Errorf("ParseNumber(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
