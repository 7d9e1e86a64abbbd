package crawler

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapError(t *testing.T) {
	t.Parallel()

	baseErr := errors.New("base error")
	wrapped := WrapError(baseErr, ParseError, "TestFunc", "test message")

	assert.Equal(t, "[parse:TestFunc] test message: base error", wrapped.Error())
	assert.ErrorIs(t, wrapped, baseErr)
	assert.Equal(t, "[parse:TestFunc] base error", WrapError(baseErr, ParseError, "TestFunc", "").Error())
	assert.NoError(t, WrapError(nil, ParseError, "TestFunc", "ignored"))
}

func TestWrapErrorSpecificTypes(t *testing.T) {
	t.Parallel()

	baseErr := errors.New("base error")
	tests := []struct {
		name      string
		wrapFunc  func(error, string, string) error
		errorType ErrorType
		checkFunc func(error) bool
	}{
		{"ParseError", WrapParseError, ParseError, IsParseError},
		{"FetchError", WrapFetchError, FetchError, IsFetchError},
		{"ExtractionError", WrapExtractionError, ExtractionError, IsExtractionError},
		{"ConfigError", WrapConfigError, ConfigError, func(err error) bool { return IsErrorType(err, ConfigError) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.wrapFunc(baseErr, "Func", "msg")
			assert.True(t, tt.checkFunc(err))
			assert.True(t, strings.HasPrefix(err.Error(), "["+string(tt.errorType)+":Func]"))
			assert.False(t, IsErrorType(err, TimeoutError))
		})
	}
}

func TestIsErrorTypeFollowsChain(t *testing.T) {
	t.Parallel()

	inner := WrapParseError(ErrParse, "inner", "")
	outer := WrapExtractionError(inner, "outer", "")

	assert.True(t, IsExtractionError(outer))
	assert.True(t, IsParseError(outer))
	assert.ErrorIs(t, outer, ErrParse)
	assert.False(t, IsParseError(errors.New("[parse:fake] not typed")))
	assert.False(t, IsParseError(nil))
}
