package hashsafe

import (
	"context"
	"hash/maphash"
	"reflect"

	"github.com/google/uuid"
)

// nilKeyHash is the fixed sentinel hash for nil keys. nil equals only nil.
const nilKeyHash uint64 = 0x9e3779b97f4a7c15

// objectStrategy supplies hash and equality for values whose static type is
// unknown at the call site — the "any" case arising when deserializing into
// a schema-less object graph. Classifiable values delegate to the policy's
// typed strategies. Everything else is handled by identity under a trusted
// policy and rejected under a collision-resistant one; the rejection is the
// core defense against containers keyed by attacker-chosen types.
type objectStrategy struct {
	policy *Policy
}

func (s *objectStrategy) Hash(v any) (uint64, error) {
	switch k := v.(type) {
	case nil:
		return nilKeyHash, nil
	case bool:
		return strategyOf[bool](s.policy, ClassBool).Hash(k)
	case string:
		return strategyOf[string](s.policy, ClassString).Hash(k)
	case int:
		return strategyOf[int64](s.policy, ClassInt).Hash(int64(k))
	case int8:
		return strategyOf[int64](s.policy, ClassInt).Hash(int64(k))
	case int16:
		return strategyOf[int64](s.policy, ClassInt).Hash(int64(k))
	case int32:
		return strategyOf[int64](s.policy, ClassInt).Hash(int64(k))
	case int64:
		return strategyOf[int64](s.policy, ClassInt).Hash(k)
	case uint:
		return strategyOf[uint64](s.policy, ClassUint).Hash(uint64(k))
	case uint8:
		return strategyOf[uint64](s.policy, ClassUint).Hash(uint64(k))
	case uint16:
		return strategyOf[uint64](s.policy, ClassUint).Hash(uint64(k))
	case uint32:
		return strategyOf[uint64](s.policy, ClassUint).Hash(uint64(k))
	case uint64:
		return strategyOf[uint64](s.policy, ClassUint).Hash(k)
	case uintptr:
		return strategyOf[uint64](s.policy, ClassUint).Hash(uint64(k))
	case float32:
		return strategyOf[float32](s.policy, ClassFloat32).Hash(k)
	case float64:
		return strategyOf[float64](s.policy, ClassFloat64).Hash(k)
	case uuid.UUID:
		return strategyOf[uuid.UUID](s.policy, ClassUUID).Hash(k)
	}
	return s.hashOpaque(v)
}

// hashOpaque handles values outside the closed classification set. Each call
// validates independently: acceptance of a reference once confers no trust
// on later insertions.
func (s *objectStrategy) hashOpaque(v any) (uint64, error) {
	t := reflect.TypeOf(v)
	if !s.policy.approvedType(t) && s.policy.resistant {
		emitKeyRejected(context.Background(), t.String())
		return 0, newTypeSafetyError(t)
	}

	// Identity hashing: the handle, not the content. Structural hashing of
	// arbitrary unknown types is itself an attack surface, so two distinct
	// instances with equal content are distinct keys here. Only reachable
	// under a trusted policy or for explicitly approved types.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return maphash.Comparable(s.policy.fast, rv.Pointer()), nil
	}
	if t.Comparable() {
		// Non-pointer opaque values have no identity to hash; fall back to
		// structural maphash under the policy's seed.
		return maphash.Comparable(s.policy.fast, v), nil
	}
	// Not comparable and not pointer-shaped: unusable as a key anywhere.
	return 0, newTypeSafetyError(t)
}

func (s *objectStrategy) Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if ai, ok := intValue(a); ok {
		bi, ok := intValue(b)
		return ok && ai == bi
	}
	if au, ok := uintValue(a); ok {
		bu, ok := uintValue(b)
		return ok && au == bu
	}
	switch x := a.(type) {
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case float32:
		y, ok := b.(float32)
		return ok && canonicalFloat32Bits(x) == canonicalFloat32Bits(y)
	case float64:
		y, ok := b.(float64)
		return ok && canonicalFloat64Bits(x) == canonicalFloat64Bits(y)
	case uuid.UUID:
		y, ok := b.(uuid.UUID)
		return ok && x == y
	}
	return equalOpaque(a, b)
}

// equalOpaque is reference identity for pointer-shaped kinds and plain
// structural equality for comparable values (the trusted-path counterpart
// of hashOpaque).
func equalOpaque(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	ra := reflect.ValueOf(a)
	switch ra.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return ra.Pointer() == reflect.ValueOf(b).Pointer()
	}
	if ta.Comparable() {
		return a == b
	}
	return false
}

// intValue extracts a signed integer of any width, widened to 64 bits.
func intValue(v any) (int64, bool) {
	switch k := v.(type) {
	case int:
		return int64(k), true
	case int8:
		return int64(k), true
	case int16:
		return int64(k), true
	case int32:
		return int64(k), true
	case int64:
		return k, true
	}
	return 0, false
}

// uintValue extracts an unsigned integer of any width, widened to 64 bits.
func uintValue(v any) (uint64, bool) {
	switch k := v.(type) {
	case uint:
		return uint64(k), true
	case uint8:
		return uint64(k), true
	case uint16:
		return uint64(k), true
	case uint32:
		return uint64(k), true
	case uint64:
		return k, true
	case uintptr:
		return uint64(k), true
	}
	return 0, false
}
