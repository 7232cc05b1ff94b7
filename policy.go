package hashsafe

import (
	"context"
	"hash/maphash"
	"reflect"
	"sync"
	"sync/atomic"
)

// Policy is an immutable security configuration for deserialization. It
// selects between ordinary structural hashing (trusted data, fastest) and
// seeded collision-resistant hashing with type-safety rejection (untrusted
// data). Derivation methods return new instances; a policy never changes
// after construction and is safe to share across goroutines.
type Policy struct {
	resistant bool
	hash      *seededHash  // seeded digest, set only when resistant
	fast      maphash.Seed // per-policy seed for the structural fast path
	approved  map[reflect.Type]struct{}

	// Lazily built strategies, one per classification. Read-mostly;
	// double-construction would be harmless (strategies are pure) but the
	// double-checked lock avoids it anyway.
	mu         sync.RWMutex
	strategies map[Classification]any
}

var (
	trustedPolicy   = newPolicy(false, nil)
	untrustedPolicy = newPolicy(true, nil)
)

// Trusted returns the canonical policy for data from trusted sources:
// structural hashing for every key kind, no rejection. Fast, and safe only
// when the caller already trusts the bytes.
func Trusted() *Policy { return trustedPolicy }

// Untrusted returns the canonical policy for data from untrusted sources:
// seeded collision-resistant hashing, and rejection of container keys whose
// type is outside the classifiable set.
func Untrusted() *Policy { return untrustedPolicy }

func newPolicy(resistant bool, approved map[reflect.Type]struct{}) *Policy {
	p := &Policy{
		resistant:  resistant,
		fast:       maphash.MakeSeed(),
		approved:   approved,
		strategies: make(map[Classification]any),
	}
	if resistant {
		p.hash = newSeededHash(newSeed())
	}
	return p
}

// HashCollisionResistant reports whether this policy uses seeded hashing and
// key-type rejection.
func (p *Policy) HashCollisionResistant() bool { return p.resistant }

// WithHashCollisionResistant derives a policy with the given resistance
// flag. If the flag is unchanged the receiver itself is returned, so preset
// identity is preserved. Entering the resistant state draws a fresh seed.
func (p *Policy) WithHashCollisionResistant(resistant bool) *Policy {
	if resistant == p.resistant {
		return p
	}
	derived := newPolicy(resistant, p.approved)
	emitPolicyDerived(context.Background(), derived.name())
	return derived
}

// WithApprovedTypes derives a policy whose fallback strategy accepts keys of
// the given types even under collision resistance, using identity hashing.
// Approve a type only when its hash cost is bounded and attacker-crafted
// collisions are not a concern for it.
func (p *Policy) WithApprovedTypes(types ...reflect.Type) *Policy {
	if len(types) == 0 {
		return p
	}
	approved := make(map[reflect.Type]struct{}, len(p.approved)+len(types))
	for t := range p.approved {
		approved[t] = struct{}{}
	}
	for _, t := range types {
		if t != nil {
			approved[t] = struct{}{}
		}
	}
	derived := &Policy{
		resistant:  p.resistant,
		hash:       p.hash, // same seed: approved types don't weaken the classified paths
		fast:       p.fast,
		approved:   approved,
		strategies: make(map[Classification]any),
	}
	emitPolicyDerived(context.Background(), derived.name())
	return derived
}

func (p *Policy) approvedType(t reflect.Type) bool {
	_, ok := p.approved[t]
	return ok
}

func (p *Policy) name() string {
	if p.resistant {
		return "untrusted"
	}
	return "trusted"
}

// ObjectStrategy returns the fallback strategy for values whose static type
// is unknown — the strategy the decoder applies to typeless container keys.
func (p *Policy) ObjectStrategy() Strategy[any] {
	return p.strategy(ClassOpaque).(Strategy[any])
}

// strategy returns the cached strategy for a classification, building it on
// first request.
func (p *Policy) strategy(c Classification) any {
	// Fast path: read-lock cache check
	p.mu.RLock()
	if s, ok := p.strategies[c]; ok {
		p.mu.RUnlock()
		return s
	}
	p.mu.RUnlock()

	// Slow path: build and cache with write-lock
	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check pattern
	if s, ok := p.strategies[c]; ok {
		return s
	}

	s := p.buildStrategy(c)
	p.strategies[c] = s
	emitStrategyBuilt(context.Background(), c.String(), p.name())
	return s
}

// defaultPolicy is the process-wide default, a convenience for callers that
// do not thread a policy explicitly (CLI and service entry points). Core
// logic never reads it; decode operations take their policy as a parameter.
var defaultPolicy atomic.Pointer[Policy]

func init() {
	// Safe by default: unknown callers get the resistant policy.
	defaultPolicy.Store(untrustedPolicy)
}

// DefaultPolicy returns the process-wide default policy.
func DefaultPolicy() *Policy { return defaultPolicy.Load() }

// SetDefaultPolicy replaces the process-wide default policy. A nil policy
// restores the untrusted preset.
func SetDefaultPolicy(p *Policy) {
	if p == nil {
		p = untrustedPolicy
	}
	defaultPolicy.Store(p)
}
