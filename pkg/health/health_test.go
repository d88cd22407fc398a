package health

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	name     string
	err      error
	critical bool
}

func (c *stubChecker) Name() string                  { return c.name }
func (c *stubChecker) Check(_ context.Context) error { return c.err }
func (c *stubChecker) Critical() bool                { return c.critical }

type stubProbe struct {
	err error
}

func (p *stubProbe) Ping(_ context.Context) error { return p.err }

func TestCheckerRegistry(t *testing.T) {
	tests := []struct {
		name     string
		checkers []Checker
		want     Status
	}{
		{
			name:     "no checkers",
			checkers: nil,
			want:     StatusHealthy,
		},
		{
			name: "all healthy",
			checkers: []Checker{
				&stubChecker{name: "a", critical: true},
				&stubChecker{name: "b"},
			},
			want: StatusHealthy,
		},
		{
			name: "critical failure is unhealthy",
			checkers: []Checker{
				&stubChecker{name: "a", err: fmt.Errorf("down"), critical: true},
				&stubChecker{name: "b"},
			},
			want: StatusUnhealthy,
		},
		{
			name: "non-critical failure is degraded",
			checkers: []Checker{
				&stubChecker{name: "a", critical: true},
				&stubChecker{name: "b", err: fmt.Errorf("down")},
			},
			want: StatusDegraded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewCheckerRegistry()
			for _, c := range tt.checkers {
				registry.Register(c)
			}

			result := registry.Check(context.Background())
			assert.Equal(t, tt.want, result.Status)
			assert.Len(t, result.Checks, len(tt.checkers))
		})
	}
}

func TestStorageChecker(t *testing.T) {
	healthy := NewStorageChecker(&stubProbe{})
	assert.NoError(t, healthy.Check(context.Background()))
	assert.Equal(t, "storage", healthy.Name())

	failing := NewStorageChecker(&stubProbe{err: fmt.Errorf("corrupt")})
	require.Error(t, failing.Check(context.Background()))
}

func TestLineAPIChecker_NotCritical(t *testing.T) {
	checker := NewLineAPIChecker(&stubProbe{err: fmt.Errorf("unreachable")})

	assert.False(t, checker.Critical())
	assert.Equal(t, "line_api", checker.Name())
	require.Error(t, checker.Check(context.Background()))
}
