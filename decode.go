package hashsafe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// UUIDExtID is the MessagePack extension type carrying a 16-byte UUID.
const UUIDExtID int8 = 2

func init() {
	msgpack.RegisterExtEncoder(UUIDExtID, uuid.UUID{}, encodeUUIDExt)
	msgpack.RegisterExtDecoder(UUIDExtID, uuid.UUID{}, decodeUUIDExt)
}

func encodeUUIDExt(_ *msgpack.Encoder, v reflect.Value) ([]byte, error) {
	id := v.Interface().(uuid.UUID)
	return id[:], nil
}

func decodeUUIDExt(d *msgpack.Decoder, v reflect.Value, extLen int) error {
	if extLen != 16 {
		return fmt.Errorf("uuid extension has %d bytes, want 16", extLen)
	}
	var id uuid.UUID
	if err := d.ReadFull(id[:]); err != nil {
		return err
	}
	v.Set(reflect.ValueOf(id))
	return nil
}

// Ext is an unrecognized MessagePack extension value surfaced by the
// typeless decoder. It is outside the classifiable key set, so using one as
// a container key is refused under a collision-resistant policy.
type Ext struct {
	ID   int8
	Data string
}

// Decoder materializes typeless MessagePack values under a security policy.
// Scalars decode to nil, bool, int64, uint64, float32, float64, string,
// []byte, or uuid.UUID; arrays to []any; maps to *Map. Every map key is
// validated through the policy's fallback strategy before insertion.
type Decoder struct {
	dec    *msgpack.Decoder
	policy *Policy
	keys   Strategy[any]
}

// NewDecoder reads typeless values from r under the given policy.
func NewDecoder(r io.Reader, p *Policy) *Decoder {
	return &Decoder{
		dec:    msgpack.NewDecoder(r),
		policy: p,
		keys:   p.ObjectStrategy(),
	}
}

// Decode reads and materializes the next value from the stream.
func (d *Decoder) Decode() (any, error) {
	return d.decodeValue()
}

// Unmarshal materializes MessagePack bytes into a schema-less object graph
// under the given policy. On any error, including a type safety rejection,
// the partially built graph is discarded and nil is returned.
func Unmarshal(data []byte, p *Policy) (any, error) {
	start := time.Now()
	ctx := context.Background()
	emitDecodeStart(ctx, p.name(), len(data))

	d := NewDecoder(bytes.NewReader(data), p)
	v, err := d.decodeValue()
	emitDecodeComplete(ctx, p.name(), len(data), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Marshal encodes v as MessagePack. *Map values re-encode as wire maps and
// uuid.UUID values as the UUID extension type.
func Marshal(v any) ([]byte, error) {
	b, err := msgpack.Marshal(v)
	if err != nil {
		return nil, newCodecError(ErrEncode, err)
	}
	return b, nil
}

func (d *Decoder) decodeValue() (any, error) {
	c, err := d.dec.PeekCode()
	if err != nil {
		return nil, newCodecError(ErrDecode, err)
	}

	switch {
	case c == msgpcode.Nil:
		if err := d.dec.DecodeNil(); err != nil {
			return nil, newCodecError(ErrDecode, err)
		}
		return nil, nil

	case c == msgpcode.True, c == msgpcode.False:
		v, err := d.dec.DecodeBool()
		if err != nil {
			return nil, newCodecError(ErrDecode, err)
		}
		return v, nil

	case msgpcode.IsFixedNum(c),
		c == msgpcode.Int8, c == msgpcode.Int16, c == msgpcode.Int32, c == msgpcode.Int64:
		v, err := d.dec.DecodeInt64()
		if err != nil {
			return nil, newCodecError(ErrDecode, err)
		}
		return v, nil

	case c == msgpcode.Uint8, c == msgpcode.Uint16, c == msgpcode.Uint32, c == msgpcode.Uint64:
		v, err := d.dec.DecodeUint64()
		if err != nil {
			return nil, newCodecError(ErrDecode, err)
		}
		// Normalize to int64 where the value fits, so a key round-trips to
		// the same dynamic type regardless of how the encoder sized it.
		if v <= math.MaxInt64 {
			return int64(v), nil
		}
		return v, nil

	case c == msgpcode.Float:
		v, err := d.dec.DecodeFloat32()
		if err != nil {
			return nil, newCodecError(ErrDecode, err)
		}
		return v, nil

	case c == msgpcode.Double:
		v, err := d.dec.DecodeFloat64()
		if err != nil {
			return nil, newCodecError(ErrDecode, err)
		}
		return v, nil

	case msgpcode.IsString(c):
		v, err := d.dec.DecodeString()
		if err != nil {
			return nil, newCodecError(ErrDecode, err)
		}
		return v, nil

	case msgpcode.IsBin(c):
		v, err := d.dec.DecodeBytes()
		if err != nil {
			return nil, newCodecError(ErrDecode, err)
		}
		return v, nil

	case msgpcode.IsFixedArray(c), c == msgpcode.Array16, c == msgpcode.Array32:
		return d.decodeArray()

	case msgpcode.IsFixedMap(c), c == msgpcode.Map16, c == msgpcode.Map32:
		return d.decodeMap()

	case msgpcode.IsFixedExt(c), msgpcode.IsExt(c):
		return d.decodeExt()

	default:
		return nil, newCodecError(ErrDecode, fmt.Errorf("unexpected code %#x", c))
	}
}

func (d *Decoder) decodeArray() ([]any, error) {
	n, err := d.dec.DecodeArrayLen()
	if err != nil {
		return nil, newCodecError(ErrDecode, err)
	}
	items := make([]any, 0, n)
	for i := 0; i < n; i++ {
		v, err := d.decodeValue()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

// decodeMap materializes a wire map through the policy's key strategy. Keys
// are hashed the moment they are decoded — before the corresponding value is
// even read — so a rejection aborts the decode eagerly rather than after
// more untrusted input has been materialized.
func (d *Decoder) decodeMap() (*Map, error) {
	n, err := d.dec.DecodeMapLen()
	if err != nil {
		return nil, newCodecError(ErrDecode, err)
	}
	m := newMap(d.policy, d.keys, n)
	for i := 0; i < n; i++ {
		key, err := d.decodeValue()
		if err != nil {
			return nil, err
		}
		h, err := d.keys.Hash(key)
		if err != nil {
			return nil, err
		}
		value, err := d.decodeValue()
		if err != nil {
			return nil, err
		}
		m.insert(h, key, value)
	}
	return m, nil
}

func (d *Decoder) decodeExt() (any, error) {
	id, extLen, err := d.dec.DecodeExtHeader()
	if err != nil {
		return nil, newCodecError(ErrDecode, err)
	}
	if id == UUIDExtID && extLen == 16 {
		var u uuid.UUID
		if err := d.dec.ReadFull(u[:]); err != nil {
			return nil, newCodecError(ErrDecode, err)
		}
		return u, nil
	}
	payload := make([]byte, extLen)
	if err := d.dec.ReadFull(payload); err != nil {
		return nil, newCodecError(ErrDecode, err)
	}
	return Ext{ID: id, Data: string(payload)}, nil
}
