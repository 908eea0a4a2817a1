package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"op and cause", Wrap(KindAnalysisFailure, "analysis.Analyze", "catalog lookup failed", errors.New("boom")), "analysis.Analyze: catalog lookup failed: boom"},
		{"op only", New(KindLookupMiss, "review.Toggle", "unknown clause"), "review.Toggle: unknown clause"},
		{"message only", &Error{Message: "plain"}, "plain"},
		{"message and cause", &Error{Message: "wrapped", Err: errors.New("inner")}, "wrapped: inner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("handler: %w", New(KindInvalidTransition, "review.Reject", "cannot reject mandatory clause"))

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.NotErrorIs(t, err, ErrLookupMiss)
	assert.Equal(t, KindInvalidTransition, KindOf(err))
}

func TestIsMatchesMessageWhenSentinelHasOne(t *testing.T) {
	specific := &Error{Kind: KindInvalidTransition, Message: "incomplete review"}
	err := New(KindInvalidTransition, "review.Finalize", "incomplete review")
	other := New(KindInvalidTransition, "review.Toggle", "cannot toggle a modified clause")

	assert.ErrorIs(t, err, specific)
	assert.NotErrorIs(t, other, specific)
}

func TestUnwrapReachesCause(t *testing.T) {
	err := Wrap(KindAnalysisFailure, "analysis.Analyze", "cancelled", context.Canceled)

	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, IsRetryable(err))
	assert.False(t, IsRetryable(errors.New("plain")))
}
