package hashsafe

import (
	"math"
	"testing"

	"github.com/google/uuid"
)

// naiveFold is the hash shortcut this package defends against: XOR-folding
// the high and low words of a wide integer.
func naiveFold(v uint64) uint32 {
	return uint32(v) ^ uint32(v>>32)
}

func TestIntStrategy_NaiveCollisionPairs(t *testing.T) {
	s := StrategyFor[int64](Untrusted())

	// Pairs of distinct integers that collide under the folded hash.
	pairs := [][2]int64{
		{1, 1 << 32},
		{2, 2 << 32},
		{0x00000001_00000002, 0x00000002_00000001},
		{0x0000beef_0000dead, 0x0000dead_0000beef},
		{0, -1},
	}

	for _, pair := range pairs {
		a, b := pair[0], pair[1]
		if naiveFold(uint64(a)) != naiveFold(uint64(b)) {
			t.Fatalf("test pair (%d, %d) should collide under the naive fold", a, b)
		}
		ha, _ := s.Hash(a)
		hb, _ := s.Hash(b)
		if ha == hb {
			t.Errorf("Hash(%d) == Hash(%d); full-width hashing should separate folded collisions", a, b)
		}
	}
}

func TestUintStrategy_FullWidth(t *testing.T) {
	s := StrategyFor[uint64](Untrusted())

	ha, _ := s.Hash(uint64(1))
	hb, _ := s.Hash(uint64(1) << 32)
	if ha == hb {
		t.Error("values colliding under a folded hash should hash differently")
	}
}

func TestUUIDStrategy_AllBytesCount(t *testing.T) {
	s := StrategyFor[uuid.UUID](Untrusted())

	base := uuid.MustParse("00010203-0405-0607-0809-0a0b0c0d0e0f")

	// Flip one byte at a time; every position must change the hash. A
	// structural hash that mixes only a subset of the fields fails this for
	// the ignored positions.
	hBase, _ := s.Hash(base)
	for i := 0; i < 16; i++ {
		mutated := base
		mutated[i] ^= 0xff
		hMut, _ := s.Hash(mutated)
		if hMut == hBase {
			t.Errorf("flipping byte %d did not change the hash", i)
		}
	}
}

func TestFloat64Strategy_Canonicalization(t *testing.T) {
	s := StrategyFor[float64](Untrusted())

	posZero, _ := s.Hash(0.0)
	negZero, _ := s.Hash(math.Copysign(0, -1))
	if posZero != negZero {
		t.Error("hash(+0.0) should equal hash(-0.0)")
	}

	nan1, _ := s.Hash(math.Float64frombits(0x7ff8000000000001))
	nan2, _ := s.Hash(math.Float64frombits(0xfff8000000000000))
	canonical, _ := s.Hash(math.NaN())
	if nan1 != canonical || nan2 != canonical {
		t.Error("all NaN bit patterns should hash to the canonical NaN hash")
	}

	one, _ := s.Hash(1.0)
	negOne, _ := s.Hash(-1.0)
	two, _ := s.Hash(2.0)
	if one == negOne || negOne == two || one == two {
		t.Error("distinct finite values should hash distinctly")
	}

	if !s.Equal(math.NaN(), math.Float64frombits(0x7ff8000000000001)) {
		t.Error("NaNs should be mutually equal under the resistant strategy")
	}
	if !s.Equal(0.0, math.Copysign(0, -1)) {
		t.Error("+0.0 and -0.0 should be equal under the resistant strategy")
	}
	if s.Equal(1.0, 2.0) {
		t.Error("distinct values should not be equal")
	}
}

func TestFloat32Strategy_Canonicalization(t *testing.T) {
	s := StrategyFor[float32](Untrusted())

	nan1, _ := s.Hash(math.Float32frombits(0x7fc00001))
	nan2, _ := s.Hash(math.Float32frombits(0xffc00000))
	if nan1 != nan2 {
		t.Error("all 32-bit NaN patterns should hash identically")
	}

	posZero, _ := s.Hash(float32(0))
	negZero, _ := s.Hash(float32(math.Copysign(0, -1)))
	if posZero != negZero {
		t.Error("hash(+0.0) should equal hash(-0.0) for float32")
	}
}

func TestStringStrategy(t *testing.T) {
	s := StrategyFor[string](Untrusted())

	h1, _ := s.Hash("hi")
	h2, _ := s.Hash("hi")
	h3, _ := s.Hash("bye")
	if h1 != h2 {
		t.Error("equal strings should hash equal")
	}
	if h1 == h3 {
		t.Error("distinct strings should hash distinctly")
	}
	if !s.Equal("hi", "hi") || s.Equal("hi", "bye") {
		t.Error("string equality should be content equality")
	}
}

func TestBoolStrategy(t *testing.T) {
	s := StrategyFor[bool](Untrusted())

	hTrue, _ := s.Hash(true)
	hTrue2, _ := s.Hash(true)
	hFalse, _ := s.Hash(false)
	if hTrue != hTrue2 {
		t.Error("hash(true) should be stable")
	}
	if hTrue == hFalse {
		t.Error("true and false should hash distinctly")
	}
}

func TestStrategyFor_TrustedFastPath(t *testing.T) {
	s := StrategyFor[string](Trusted())

	h1, _ := s.Hash("same")
	h2, _ := s.Hash("same")
	if h1 != h2 {
		t.Error("trusted strategy must still be deterministic")
	}
	if !s.Equal("same", "same") {
		t.Error("trusted strategy equality should be value equality")
	}
}

func TestStrategyFor_NarrowWidths(t *testing.T) {
	p := Untrusted()
	wide := StrategyFor[int64](p)
	narrow := StrategyFor[int32](p)

	hWide, _ := wide.Hash(7)
	hNarrow, _ := narrow.Hash(7)
	if hWide != hNarrow {
		t.Error("narrower widths should hash via the full-width representation")
	}
	if !narrow.Equal(7, 7) || narrow.Equal(7, 8) {
		t.Error("narrow width equality should be value equality")
	}
}

func TestStrategyFor_NamedString(t *testing.T) {
	type label string
	p := Untrusted()

	base := StrategyFor[string](p)
	named := StrategyFor[label](p)

	hBase, _ := base.Hash("x")
	hNamed, _ := named.Hash(label("x"))
	if hBase != hNamed {
		t.Error("named string types should share the canonical string strategy")
	}
}

func TestStrategy_HashEqualityContract(t *testing.T) {
	s := StrategyFor[float64](Untrusted())

	// Equal values must hash equal even when their bit patterns differ.
	pairs := [][2]float64{
		{0.0, math.Copysign(0, -1)},
		{math.NaN(), math.Float64frombits(0xfff8000000000001)},
		{1.5, 1.5},
	}

	for _, pair := range pairs {
		if !s.Equal(pair[0], pair[1]) {
			t.Fatalf("Equal(%v, %v) should hold", pair[0], pair[1])
		}
		ha, _ := s.Hash(pair[0])
		hb, _ := s.Hash(pair[1])
		if ha != hb {
			t.Errorf("Equal values must hash equal: %v vs %v", pair[0], pair[1])
		}
	}
}
