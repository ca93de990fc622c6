package queryerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := UnknownFunction("String.Reverse")

	assert.True(t, errors.Is(err, ErrUnknownFunction))
	assert.False(t, errors.Is(err, ErrInvalidArgument))
}

func TestError_IsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("render where: %w", UnsupportedCast("time.Time"))

	assert.ErrorIs(t, err, ErrUnsupportedCast)
	assert.True(t, IsKind(err, KindUnsupportedCast))
	assert.Equal(t, KindUnsupportedCast, KindOf(err))
}

func TestError_Message(t *testing.T) {
	testCases := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "construct and message",
			err:  UnsupportedOperator("Xor"),
			want: "UNSUPPORTED_OPERATOR: operator not supported: Xor",
		},
		{
			name: "message only",
			err:  InvalidArgument("limit must be non-negative, got %d", -1),
			want: "INVALID_ARGUMENT: limit must be non-negative, got -1",
		},
		{
			name: "kind only",
			err:  &Error{Kind: KindUnknownFunction},
			want: "UNKNOWN_FUNCTION",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

func TestError_Code(t *testing.T) {
	assert.Equal(t, "E201", UnsupportedOperator("x").Code())
	assert.Equal(t, "E205", InvalidArgument("x").Code())
	assert.Equal(t, "E200", (&Error{Kind: "OTHER"}).Code())
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
	assert.False(t, IsKind(nil, KindInvalidArgument))
}
