package transfer

import "time"

const bytesPerMB = 1024 * 1024

// Plan is the retention decision for one tier: how large the upload may be,
// where the blob goes, and when the record dies.
type Plan struct {
	MaxSizeBytes  int64
	StoragePrefix string
	ExpiresAt     *time.Time // nil = never expires
}

// Policy maps tiers to plans. Pure and deterministic given its inputs and
// the clock passed to PlanFor; it performs no I/O.
type Policy struct {
	freeLimitBytes    int64
	premiumLimitBytes int64
	freeExpiry        time.Duration
}

// NewPolicy creates a Policy with the given tier limits (in MB) and free-tier
// lifetime.
func NewPolicy(freeLimitMB, premiumLimitMB int64, freeExpiry time.Duration) *Policy {
	return &Policy{
		freeLimitBytes:    freeLimitMB * bytesPerMB,
		premiumLimitBytes: premiumLimitMB * bytesPerMB,
		freeExpiry:        freeExpiry,
	}
}

// PlanFor returns the plan for tier as of now. The storage prefix governs
// lifecycle deletion: the sweeper only ever touches prefixed paths whose
// records carry an expiry.
func (p *Policy) PlanFor(tier Tier, now time.Time) Plan {
	switch tier {
	case TierPremium:
		return Plan{
			MaxSizeBytes:  p.premiumLimitBytes,
			StoragePrefix: "premium/",
			ExpiresAt:     nil,
		}
	default:
		expiresAt := now.Add(p.freeExpiry)
		return Plan{
			MaxSizeBytes:  p.freeLimitBytes,
			StoragePrefix: "free/",
			ExpiresAt:     &expiresAt,
		}
	}
}
