package obs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := New(ErrInvalidOrder, "missing limit price")
	assert.Equal(t, ErrInvalidOrder, err.Code)
	assert.Equal(t, "missing limit price", err.Message)
	assert.Nil(t, err.Cause)
	assert.Contains(t, err.Error(), "INVALID_ORDER")
	assert.Contains(t, err.Error(), "missing limit price")
}

func TestNewfFormatsMessage(t *testing.T) {
	err := Newf(ErrMarketNotFound, "unknown market %q", "AURO-USDC")
	assert.Equal(t, ErrMarketNotFound, err.Code)
	assert.Equal(t, `unknown market "AURO-USDC"`, err.Message)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, ErrInternal, "wrapping boom")
	assert.Same(t, cause, err.Cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "boom")
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrInternal, "unused"))
}

func TestCodeOfUnwrapsThroughPlainErrors(t *testing.T) {
	base := New(ErrOrderNotFound, "gone")
	wrapped := fmt.Errorf("handling request: %w", base)
	assert.Equal(t, ErrOrderNotFound, CodeOf(wrapped))
}

func TestCodeOfReturnsEmptyForNonClobErrors(t *testing.T) {
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(New(ErrInvalidOrder, "bad")))
	assert.True(t, IsClientError(New(ErrRateLimited, "slow down")))
	assert.False(t, IsClientError(New(ErrInternal, "oops")))
	assert.False(t, IsClientError(errors.New("plain")))
}
