package hashsafe

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestTypeSafetyError_Is(t *testing.T) {
	err := newTypeSafetyError(reflect.TypeOf([]byte(nil)))

	if !errors.Is(err, ErrTypeSafety) {
		t.Error("TypeSafetyError should unwrap to ErrTypeSafety")
	}
	if errors.Is(err, ErrDecode) {
		t.Error("TypeSafetyError should not match ErrDecode")
	}
}

func TestTypeSafetyError_Message(t *testing.T) {
	err := newTypeSafetyError(reflect.TypeOf(map[string]int(nil)))

	if !strings.Contains(err.Error(), "map[string]int") {
		t.Errorf("Error() = %q, want the offending type named", err.Error())
	}
}

func TestCodecError_Is(t *testing.T) {
	err := newCodecError(ErrDecode, errors.New("unexpected EOF"))

	if !errors.Is(err, ErrDecode) {
		t.Error("CodecError should unwrap to ErrDecode")
	}
	if errors.Is(err, ErrEncode) {
		t.Error("CodecError should not match ErrEncode")
	}
}

func TestCodecError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "with cause",
			err:  newCodecError(ErrDecode, errors.New("unexpected EOF")),
			want: "decode failed: unexpected EOF",
		},
		{
			name: "without cause",
			err:  &CodecError{Err: ErrEncode},
			want: "encode failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
