package health

import (
	"context"
	"fmt"
	"time"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

type Checker interface {
	Check(ctx context.Context) error
	Name() string
}

// Critical marks a checker whose failure makes the whole service unhealthy
// rather than degraded.
type Critical interface {
	Critical() bool
}

type Health struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

type CheckResult struct {
	Status    Status    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type CheckerRegistry struct {
	checkers []Checker
}

func NewCheckerRegistry() *CheckerRegistry {
	return &CheckerRegistry{
		checkers: make([]Checker, 0),
	}
}

func (r *CheckerRegistry) Register(checker Checker) {
	r.checkers = append(r.checkers, checker)
}

func (r *CheckerRegistry) Check(ctx context.Context) Health {
	results := make(map[string]CheckResult)
	anyUnhealthy := false
	anyDegraded := false

	for _, checker := range r.checkers {
		err := checker.Check(ctx)
		result := CheckResult{
			Timestamp: time.Now(),
		}

		if err != nil {
			result.Status = StatusUnhealthy
			result.Message = err.Error()
			if isCritical(checker) {
				anyUnhealthy = true
			} else {
				result.Status = StatusDegraded
				anyDegraded = true
			}
		} else {
			result.Status = StatusHealthy
		}

		results[checker.Name()] = result
	}

	overallStatus := StatusHealthy
	if anyUnhealthy {
		overallStatus = StatusUnhealthy
	} else if anyDegraded {
		overallStatus = StatusDegraded
	}

	return Health{
		Status:    overallStatus,
		Timestamp: time.Now(),
		Checks:    results,
	}
}

func isCritical(checker Checker) bool {
	if c, ok := checker.(Critical); ok {
		return c.Critical()
	}
	return true
}

// StorageProbe reports whether the persisted message document is readable.
type StorageProbe interface {
	Ping(ctx context.Context) error
}

type StorageChecker struct {
	store StorageProbe
}

func NewStorageChecker(store StorageProbe) *StorageChecker {
	return &StorageChecker{store: store}
}

func (c *StorageChecker) Name() string {
	return "storage"
}

func (c *StorageChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("storage read failed: %w", err)
	}
	return nil
}

// APIProbe reports reachability of an upstream API.
type APIProbe interface {
	Ping(ctx context.Context) error
}

type LineAPIChecker struct {
	probe APIProbe
}

func NewLineAPIChecker(probe APIProbe) *LineAPIChecker {
	return &LineAPIChecker{probe: probe}
}

func (c *LineAPIChecker) Name() string {
	return "line_api"
}

// Critical reports false: the bridge still serves stored resources while the
// LINE API is unreachable.
func (c *LineAPIChecker) Critical() bool {
	return false
}

func (c *LineAPIChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.probe.Ping(ctx); err != nil {
		return fmt.Errorf("line api ping failed: %w", err)
	}
	return nil
}
