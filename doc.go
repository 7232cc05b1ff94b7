// Package hashsafe provides collision-resistant hashing and a type-safety
// guard for MessagePack deserialization of untrusted data.
//
// Hash-table-backed containers reconstructed from wire data are vulnerable to
// hash flooding: an attacker who knows the hash function can craft keys that
// all collide, degrading container operations from O(1) to O(n²). This
// package defends against that in two ways:
//
//   - Keys of known kinds (booleans, integers, floats, strings, UUIDs) are
//     hashed with a keyed BLAKE3 digest whose seed is drawn from process
//     entropy, so collisions cannot be predicted from outside the process.
//   - Keys of any other kind are rejected outright during typeless decoding,
//     before the value is inserted into a container.
//
// # Policies
//
// Behavior is selected by an immutable [Policy]. Two presets exist:
//
//	hashsafe.Trusted()   // ordinary structural hashing, no rejection
//	hashsafe.Untrusted() // seeded hashing, unclassified key types rejected
//
// Policies derive new policies rather than mutating:
//
//	p := hashsafe.Trusted().WithHashCollisionResistant(true)
//
// Deriving with an unchanged flag returns the receiver itself, so presets can
// be compared by identity.
//
// # Strategies
//
// A [Strategy] pairs equality with a 64-bit hash for one classification of
// key. Strategies are built lazily per policy and shared across goroutines:
//
//	s := hashsafe.StrategyFor[float64](hashsafe.Untrusted())
//	h, _ := s.Hash(math.NaN()) // every NaN bit pattern hashes the same
//
// # Typeless decoding
//
// [Unmarshal] materializes MessagePack bytes into a generic object graph
// without a target type. Wire maps become [Map] values whose probe path runs
// through the policy's strategy instead of Go's builtin map hash:
//
//	v, err := hashsafe.Unmarshal(data, hashsafe.Untrusted())
//	if errors.Is(err, hashsafe.ErrTypeSafety) {
//		// a container key of an unapproved reference type was refused
//	}
//
// Rejection aborts the whole decode; no partially-built graph is returned.
//
// # Concurrency
//
// Policies, strategies, and the per-policy strategy cache are safe for
// concurrent use. Thread the policy explicitly through each decode; the
// process-wide default ([DefaultPolicy], [SetDefaultPolicy]) exists for outer
// boundaries such as CLI entry points.
package hashsafe
