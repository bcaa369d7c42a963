package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkActiveVersionsFlagsHighestVersionPerPeriod(t *testing.T) {
	input := []Invoice{
		{Number: "R-101", Year: 2026, Month: 1, PeriodFrom: "2026-01-01", Version: 1},
		{Number: "R-102", Year: 2026, Month: 1, PeriodFrom: "2026-01-01", Version: 3},
		{Number: "R-103", Year: 2026, Month: 1, PeriodFrom: "2026-01-01", Version: 2},
		{Number: "R-201", Year: 2026, Month: 2, PeriodFrom: "2026-02-01", Version: 1},
	}

	result := MarkActiveVersions(input)
	require.Len(t, result, 4)

	// Newest period first, each group sorted by version descending.
	assert.Equal(t, "R-201", result[0].Number)
	assert.True(t, result[0].IsActive)

	assert.Equal(t, "R-102", result[1].Number)
	assert.True(t, result[1].IsActive)
	assert.Equal(t, "R-103", result[2].Number)
	assert.False(t, result[2].IsActive)
	assert.Equal(t, "R-101", result[3].Number)
	assert.False(t, result[3].IsActive)
}

func TestMarkActiveVersionsIgnoresUpstreamFlags(t *testing.T) {
	// Upstream active flags are recomputed, never trusted.
	input := []Invoice{
		{Number: "R-1", Year: 2025, Month: 12, PeriodFrom: "2025-12-01", Version: 1, IsActive: true},
		{Number: "R-2", Year: 2025, Month: 12, PeriodFrom: "2025-12-01", Version: 2, IsActive: false},
	}

	result := MarkActiveVersions(input)
	require.Len(t, result, 2)

	assert.Equal(t, "R-2", result[0].Number)
	assert.True(t, result[0].IsActive)
	assert.False(t, result[1].IsActive)
}

func TestMarkActiveVersionsSamePeriodDifferentStart(t *testing.T) {
	// A mid-month correction opens its own billing period.
	input := []Invoice{
		{Number: "R-1", Year: 2026, Month: 1, PeriodFrom: "2026-01-01", Version: 1},
		{Number: "R-2", Year: 2026, Month: 1, PeriodFrom: "2026-01-15", Version: 1},
	}

	result := MarkActiveVersions(input)
	require.Len(t, result, 2)

	assert.True(t, result[0].IsActive)
	assert.True(t, result[1].IsActive)
}

func TestMarkActiveVersionsEmpty(t *testing.T) {
	assert.Empty(t, MarkActiveVersions(nil))
}
