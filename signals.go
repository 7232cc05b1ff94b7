package hashsafe

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for hashing and deserialization events.
var (
	SignalPolicyDerived  = capitan.NewSignal("hashsafe.policy.derived", "Policy derived from an existing policy")
	SignalStrategyBuilt  = capitan.NewSignal("hashsafe.strategy.built", "Equality strategy constructed")
	SignalKeyRejected    = capitan.NewSignal("hashsafe.key.rejected", "Container key refused by the type safety guard")
	SignalDecodeStart    = capitan.NewSignal("hashsafe.decode.start", "Typeless decode beginning")
	SignalDecodeComplete = capitan.NewSignal("hashsafe.decode.complete", "Typeless decode finished")
)

// Keys for typed event data.
var (
	KeyPolicy         = capitan.NewStringKey("policy")
	KeyClassification = capitan.NewStringKey("classification")
	KeyTypeName       = capitan.NewStringKey("type_name")
	KeySize           = capitan.NewIntKey("size")
	KeyDuration       = capitan.NewDurationKey("duration")
	KeyError          = capitan.NewErrorKey("error")
)

// emitPolicyDerived emits an event when a derivation creates a new policy.
func emitPolicyDerived(ctx context.Context, policy string) {
	capitan.Emit(ctx, SignalPolicyDerived,
		KeyPolicy.Field(policy),
	)
}

// emitStrategyBuilt emits an event when a strategy is built and cached.
func emitStrategyBuilt(ctx context.Context, classification, policy string) {
	capitan.Emit(ctx, SignalStrategyBuilt,
		KeyClassification.Field(classification),
		KeyPolicy.Field(policy),
	)
}

// emitKeyRejected emits an event when a container key is refused.
func emitKeyRejected(ctx context.Context, typeName string) {
	capitan.Error(ctx, SignalKeyRejected,
		KeyTypeName.Field(typeName),
	)
}

// emitDecodeStart emits an event when a typeless decode begins.
func emitDecodeStart(ctx context.Context, policy string, size int) {
	capitan.Emit(ctx, SignalDecodeStart,
		KeyPolicy.Field(policy),
		KeySize.Field(size),
	)
}

// emitDecodeComplete emits an event when a typeless decode finishes.
func emitDecodeComplete(ctx context.Context, policy string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyPolicy.Field(policy),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDecodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDecodeComplete, fields...)
	}
}
