// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/abrezinsky/spwtrack/internal/repository"
)

// NewTestRepository returns a private in-memory store with the current
// schema. It is closed when the test ends.
func NewTestRepository(tb testing.TB) *repository.Repository {
	tb.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		tb.Fatalf("in-memory repository: %v", err)
	}
	tb.Cleanup(func() { repo.Close() })

	if err := repo.Ping(context.Background()); err != nil {
		tb.Fatalf("in-memory repository unreachable: %v", err)
	}
	return repo
}
