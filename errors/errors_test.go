package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClass_String(t *testing.T) {
	assert.Equal(t, "transient", ErrorTransient.String())
	assert.Equal(t, "invalid", ErrorInvalid.String())
	assert.Equal(t, "fatal", ErrorFatal.String())
	assert.Equal(t, "unknown", ErrorClass(99).String())
}

func TestWrap_Format(t *testing.T) {
	base := stderrors.New("boom")
	err := Wrap(base, "Registry", "CreateWidget", "factory lookup")

	assert.EqualError(t, err, "Registry.CreateWidget: factory lookup failed: boom")
	assert.ErrorIs(t, err, base)
}

func TestWrap_NilPassthrough(t *testing.T) {
	assert.NoError(t, Wrap(nil, "a", "b", "c"))
	assert.NoError(t, WrapInvalid(nil, "a", "b", "c"))
	assert.NoError(t, WrapTransient(nil, "a", "b", "c"))
	assert.NoError(t, WrapFatal(nil, "a", "b", "c"))
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{"invalid config", ErrInvalidConfig, ErrorInvalid},
		{"unknown factory", ErrUnknownFactory, ErrorInvalid},
		{"duplicate factory", ErrDuplicateFactory, ErrorInvalid},
		{"store unavailable", ErrStoreUnavailable, ErrorTransient},
		{"timeout message", stderrors.New("operation timeout"), ErrorTransient},
		{"unknown defaults to transient", stderrors.New("mystery"), ErrorTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestWrapInvalid_Classifies(t *testing.T) {
	err := WrapInvalid(stderrors.New("bad value"), "Registry", "RegisterFactory", "name validation")

	assert.True(t, IsInvalid(err))
	assert.False(t, IsTransient(err))
	assert.False(t, IsFatal(err))

	var ce *ClassifiedError
	assert.True(t, stderrors.As(err, &ce))
	assert.Equal(t, "Registry", ce.Component)
	assert.Equal(t, "RegisterFactory", ce.Operation)
}

func TestWrapFatal_Classifies(t *testing.T) {
	err := WrapFatal(stderrors.New("corrupt state"), "Manager", "UnmountAll", "cleanup")

	assert.True(t, IsFatal(err))
	assert.Equal(t, ErrorFatal, Classify(err))
}

func TestIsHelpers_NilSafe(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsInvalid(nil))
	assert.False(t, IsFatal(nil))
}

func TestClassifiedError_Unwrap(t *testing.T) {
	base := ErrDuplicateWidget
	err := WrapInvalid(base, "Registry", "RegisterWidget", "duplicate check")

	assert.ErrorIs(t, err, base)
}
