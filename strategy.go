package hashsafe

import (
	"hash/maphash"
	"reflect"

	"github.com/google/uuid"
)

// Strategy pairs equality with a 64-bit hash for container keys of type T.
// Implementations satisfy the usual contract: Equal(a, b) implies
// Hash(a) == Hash(b). Strategies are stateless aside from the seed captured
// at construction and are safe for concurrent use.
//
// Hash returns an error only from the fallback (typeless) strategy, when an
// unapproved reference type is refused under a collision-resistant policy.
type Strategy[T any] interface {
	Hash(v T) (uint64, error)
	Equal(a, b T) bool
}

// StrategyFor returns the equality+hash strategy the policy assigns to T.
// Strategies are built lazily, cached per (policy, classification), and
// shared; calling this per container is fine, calling it per element is
// unnecessary.
func StrategyFor[T any](p *Policy) Strategy[T] {
	t := reflect.TypeFor[T]()
	c := Classify(t)
	s := p.strategy(c)
	if st, ok := s.(Strategy[T]); ok {
		return st
	}
	// T is a named variant or narrower width of a canonical kind (or an
	// opaque type). Bridge to the cached canonical strategy. This path only
	// runs at strategy lookup and for non-canonical key types, never on the
	// typeless decode hot path.
	return bridgeStrategy[T]{class: c, policy: p}
}

// buildStrategy constructs the strategy for one classification. Called once
// per (policy, classification) under the policy's cache lock.
func (p *Policy) buildStrategy(c Classification) any {
	if c == ClassNil || c == ClassOpaque {
		return &objectStrategy{policy: p}
	}
	if p.resistant {
		switch c {
		case ClassBool:
			return boolStrategy{h: p.hash}
		case ClassInt:
			return intStrategy{h: p.hash}
		case ClassUint:
			return uintStrategy{h: p.hash}
		case ClassFloat32:
			return float32Strategy{h: p.hash}
		case ClassFloat64:
			return float64Strategy{h: p.hash}
		case ClassUUID:
			return uuidStrategy{h: p.hash}
		case ClassString:
			return stringStrategy{h: p.hash}
		}
	}
	switch c {
	case ClassBool:
		return fastStrategy[bool]{seed: p.fast}
	case ClassInt:
		return fastStrategy[int64]{seed: p.fast}
	case ClassUint:
		return fastStrategy[uint64]{seed: p.fast}
	case ClassFloat32:
		return fastStrategy[float32]{seed: p.fast}
	case ClassFloat64:
		return fastStrategy[float64]{seed: p.fast}
	case ClassUUID:
		return fastStrategy[uuid.UUID]{seed: p.fast}
	case ClassString:
		return fastStrategy[string]{seed: p.fast}
	}
	return &objectStrategy{policy: p}
}

// strategyOf fetches the cached canonical strategy for a classification.
func strategyOf[T any](p *Policy, c Classification) Strategy[T] {
	return p.strategy(c).(Strategy[T])
}

// Collision-resistant strategies. Each canonicalizes its value, then hashes
// the canonical byte representation through the policy's seeded hash.

type boolStrategy struct{ h *seededHash }

func (s boolStrategy) Hash(v bool) (uint64, error) {
	buf := [1]byte{boolByte(v)}
	return s.h.digest(buf[:]), nil
}

func (s boolStrategy) Equal(a, b bool) bool { return a == b }

type intStrategy struct{ h *seededHash }

func (s intStrategy) Hash(v int64) (uint64, error) {
	var buf [8]byte
	int64Bytes(&buf, v)
	return s.h.digest(buf[:]), nil
}

func (s intStrategy) Equal(a, b int64) bool { return a == b }

type uintStrategy struct{ h *seededHash }

func (s uintStrategy) Hash(v uint64) (uint64, error) {
	var buf [8]byte
	uint64Bytes(&buf, v)
	return s.h.digest(buf[:]), nil
}

func (s uintStrategy) Equal(a, b uint64) bool { return a == b }

// float64Strategy hashes and compares canonical bits, so all NaNs are
// mutually equal and +0 equals -0. This deliberately diverges from IEEE
// equality: a key must be findable by the same bits it was stored under.
type float64Strategy struct{ h *seededHash }

func (s float64Strategy) Hash(v float64) (uint64, error) {
	var buf [8]byte
	uint64Bytes(&buf, canonicalFloat64Bits(v))
	return s.h.digest(buf[:]), nil
}

func (s float64Strategy) Equal(a, b float64) bool {
	return canonicalFloat64Bits(a) == canonicalFloat64Bits(b)
}

type float32Strategy struct{ h *seededHash }

func (s float32Strategy) Hash(v float32) (uint64, error) {
	var buf [4]byte
	uint32Bytes(&buf, canonicalFloat32Bits(v))
	return s.h.digest(buf[:]), nil
}

func (s float32Strategy) Equal(a, b float32) bool {
	return canonicalFloat32Bits(a) == canonicalFloat32Bits(b)
}

// uuidStrategy hashes the full 16-byte sequence. A structural hash that only
// mixes a subset of the fields would let two UUIDs differing in the ignored
// bytes collide.
type uuidStrategy struct{ h *seededHash }

func (s uuidStrategy) Hash(v uuid.UUID) (uint64, error) {
	return s.h.digest(v[:]), nil
}

func (s uuidStrategy) Equal(a, b uuid.UUID) bool { return a == b }

type stringStrategy struct{ h *seededHash }

func (s stringStrategy) Hash(v string) (uint64, error) {
	return s.h.digestString(v), nil
}

func (s stringStrategy) Equal(a, b string) bool { return a == b }

// fastStrategy is the trusted-policy default: ordinary structural hashing
// via maphash with a per-policy seed. No canonicalization and no rejection;
// appropriate only for data the caller already trusts. Note that maphash
// honors == (so -0 and +0 hash alike) but NaN keys get no guarantees, same
// as Go's builtin map.
type fastStrategy[T comparable] struct{ seed maphash.Seed }

func (s fastStrategy[T]) Hash(v T) (uint64, error) {
	return maphash.Comparable(s.seed, v), nil
}

func (s fastStrategy[T]) Equal(a, b T) bool { return a == b }

// bridgeStrategy adapts named types and narrower integer widths to the
// cached canonical strategy for their classification via reflection.
type bridgeStrategy[T any] struct {
	class  Classification
	policy *Policy
}

func (s bridgeStrategy[T]) Hash(v T) (uint64, error) {
	switch s.class {
	case ClassBool:
		return strategyOf[bool](s.policy, ClassBool).Hash(reflect.ValueOf(v).Bool())
	case ClassInt:
		return strategyOf[int64](s.policy, ClassInt).Hash(reflect.ValueOf(v).Int())
	case ClassUint:
		return strategyOf[uint64](s.policy, ClassUint).Hash(reflect.ValueOf(v).Uint())
	case ClassFloat32:
		return strategyOf[float32](s.policy, ClassFloat32).Hash(float32(reflect.ValueOf(v).Float()))
	case ClassFloat64:
		return strategyOf[float64](s.policy, ClassFloat64).Hash(reflect.ValueOf(v).Float())
	case ClassUUID:
		id := reflect.ValueOf(v).Convert(uuidType).Interface().(uuid.UUID)
		return strategyOf[uuid.UUID](s.policy, ClassUUID).Hash(id)
	case ClassString:
		return strategyOf[string](s.policy, ClassString).Hash(reflect.ValueOf(v).String())
	default:
		return s.policy.ObjectStrategy().Hash(v)
	}
}

func (s bridgeStrategy[T]) Equal(a, b T) bool {
	switch s.class {
	case ClassBool:
		return reflect.ValueOf(a).Bool() == reflect.ValueOf(b).Bool()
	case ClassInt:
		return reflect.ValueOf(a).Int() == reflect.ValueOf(b).Int()
	case ClassUint:
		return reflect.ValueOf(a).Uint() == reflect.ValueOf(b).Uint()
	case ClassFloat32:
		return canonicalFloat32Bits(float32(reflect.ValueOf(a).Float())) ==
			canonicalFloat32Bits(float32(reflect.ValueOf(b).Float()))
	case ClassFloat64:
		return canonicalFloat64Bits(reflect.ValueOf(a).Float()) ==
			canonicalFloat64Bits(reflect.ValueOf(b).Float())
	case ClassString:
		return reflect.ValueOf(a).String() == reflect.ValueOf(b).String()
	default:
		return s.policy.ObjectStrategy().Equal(a, b)
	}
}
