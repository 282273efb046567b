package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorWrapping(t *testing.T) {
	cause := stderrors.New("boom")
	err := NotFound("session not found", cause)

	assert.Equal(t, "NOT_FOUND: session not found: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.NotEmpty(t, err.StackTrace())
}

func TestTypeOf(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", InvalidInput("bad top_n", nil))

	assert.Equal(t, ErrTypeInvalidInput, TypeOf(wrapped))
	assert.Equal(t, ErrTypeInternal, TypeOf(stderrors.New("plain")))
	assert.Equal(t, "bad top_n", MessageOf(wrapped))
	assert.Equal(t, "plain", MessageOf(stderrors.New("plain")))
	assert.Equal(t, "", MessageOf(nil))
}
