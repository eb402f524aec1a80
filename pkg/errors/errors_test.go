package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransportError_IsRetriable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "connection refused", err: stderrors.New("dial tcp: connection refused"), want: true},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: true},
		{name: "cancelled by caller", err: context.Canceled, want: false},
		{name: "wrapped cancellation", err: fmt.Errorf("Post: %w", context.Canceled), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewTransportError("/processing/api/payment/get", tt.err)
			assert.Equal(t, tt.want, err.IsRetriable())
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestDecodeError_TruncatesBody(t *testing.T) {
	body := []byte(strings.Repeat("x", 1000))
	err := NewDecodeError("/processing/api/payment/get", 502, body, stderrors.New("invalid character"))

	assert.Less(t, len(err.Error()), 400)
	assert.Len(t, err.Body, 1000)
}
