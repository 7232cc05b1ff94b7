package hashsafe

import (
	"github.com/vmihailenco/msgpack/v5"
)

// Map is a container keyed through a policy's equality strategy instead of
// Go's builtin map hash. It is the materialization target for wire maps
// during typeless decoding: probing and insertion run the policy's hash, so
// collision resistance and key rejection apply on every operation, and keys
// the builtin map cannot hold (NaN-canonical floats, identity references)
// behave consistently.
//
// A Map is not safe for concurrent mutation; decode results are owned by
// their caller, matching the semantics of an ordinary decoded map.
type Map struct {
	policy   *Policy
	strategy Strategy[any]
	buckets  map[uint64][]mapEntry
	length   int
}

type mapEntry struct {
	key   any
	value any
}

// NewMap returns an empty Map keyed by the policy's fallback strategy.
func NewMap(p *Policy) *Map {
	return newMap(p, p.ObjectStrategy(), 0)
}

func newMap(p *Policy, strategy Strategy[any], capacity int) *Map {
	return &Map{
		policy:   p,
		strategy: strategy,
		buckets:  make(map[uint64][]mapEntry, capacity),
	}
}

// Set inserts or replaces the value for key. Returns a TypeSafetyError when
// the key's type is refused under the map's policy; the map is unchanged in
// that case.
func (m *Map) Set(key, value any) error {
	h, err := m.strategy.Hash(key)
	if err != nil {
		return err
	}
	m.insert(h, key, value)
	return nil
}

// insert stores under a precomputed hash. Equality probes stay within the
// hash bucket, so lookup cost is bounded by genuine collisions only.
func (m *Map) insert(h uint64, key, value any) {
	bucket := m.buckets[h]
	for i := range bucket {
		if m.strategy.Equal(bucket[i].key, key) {
			bucket[i].value = value
			return
		}
	}
	m.buckets[h] = append(bucket, mapEntry{key: key, value: value})
	m.length++
}

// Get returns the value stored for key. A key whose type the policy refuses
// cannot have been inserted, so it reports absence.
func (m *Map) Get(key any) (any, bool) {
	h, err := m.strategy.Hash(key)
	if err != nil {
		return nil, false
	}
	for _, e := range m.buckets[h] {
		if m.strategy.Equal(e.key, key) {
			return e.value, true
		}
	}
	return nil, false
}

// Delete removes the entry for key, reporting whether it was present.
func (m *Map) Delete(key any) bool {
	h, err := m.strategy.Hash(key)
	if err != nil {
		return false
	}
	bucket := m.buckets[h]
	for i := range bucket {
		if m.strategy.Equal(bucket[i].key, key) {
			bucket[i] = bucket[len(bucket)-1]
			bucket = bucket[:len(bucket)-1]
			if len(bucket) == 0 {
				delete(m.buckets, h)
			} else {
				m.buckets[h] = bucket
			}
			m.length--
			return true
		}
	}
	return false
}

// Len returns the number of entries.
func (m *Map) Len() int { return m.length }

// Range calls fn for each entry until fn returns false. Iteration order is
// unspecified.
func (m *Map) Range(fn func(key, value any) bool) {
	for _, bucket := range m.buckets {
		for _, e := range bucket {
			if !fn(e.key, e.value) {
				return
			}
		}
	}
}

var _ msgpack.CustomEncoder = (*Map)(nil)

// EncodeMsgpack re-encodes the map as a MessagePack map, so decoded graphs
// round-trip through Marshal.
func (m *Map) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(m.length); err != nil {
		return err
	}
	var encErr error
	m.Range(func(key, value any) bool {
		if err := enc.Encode(key); err != nil {
			encErr = err
			return false
		}
		if err := enc.Encode(value); err != nil {
			encErr = err
			return false
		}
		return true
	})
	return encErr
}
