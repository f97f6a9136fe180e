package transfer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanFor_Free(t *testing.T) {
	policy := NewPolicy(30, 100, 24*time.Hour)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	plan := policy.PlanFor(TierFree, now)

	assert.Equal(t, int64(30*1024*1024), plan.MaxSizeBytes)
	assert.Equal(t, "free/", plan.StoragePrefix)
	require.NotNil(t, plan.ExpiresAt)
	assert.Equal(t, now.Add(24*time.Hour), *plan.ExpiresAt)
	assert.True(t, plan.ExpiresAt.After(now))
}

func TestPlanFor_Premium(t *testing.T) {
	policy := NewPolicy(30, 100, 24*time.Hour)

	plan := policy.PlanFor(TierPremium, time.Now())

	assert.Equal(t, int64(100*1024*1024), plan.MaxSizeBytes)
	assert.Equal(t, "premium/", plan.StoragePrefix)
	assert.Nil(t, plan.ExpiresAt)
}

func TestPlanFor_Deterministic(t *testing.T) {
	policy := NewPolicy(30, 100, 24*time.Hour)
	now := time.Now()

	a := policy.PlanFor(TierFree, now)
	b := policy.PlanFor(TierFree, now)

	assert.Equal(t, a.MaxSizeBytes, b.MaxSizeBytes)
	assert.Equal(t, a.StoragePrefix, b.StoragePrefix)
	assert.Equal(t, *a.ExpiresAt, *b.ExpiresAt)
}
