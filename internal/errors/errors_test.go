package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := InvalidSelection("Atlantis", stderrors.New("unknown entity"))
	wrapped := Wrap(base, "select failed")

	assert.Equal(t, CodeInvalidSelection, GetCode(wrapped))
	assert.True(t, IsAppError(wrapped))
	assert.ErrorIs(t, wrapped, base)
	assert.Equal(t, `select failed: cannot select "Atlantis": unknown entity`, wrapped.Error())
}

func TestWrapPlainError(t *testing.T) {
	plain := stderrors.New("boom")
	wrapped := Wrapf(plain, "step %d", 2)

	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.ErrorIs(t, wrapped, plain)
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestGetCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("outer: %w", LoadError("series", stderrors.New("missing")))
	assert.Equal(t, CodeLoadError, GetCode(err))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("x")))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeNotFound, stderrors.New("gone"))
	assert.Equal(t, CodeNotFound, GetCode(err))
	assert.Equal(t, "gone", err.Error())
}

func TestWithCodeKeepsOuterContext(t *testing.T) {
	inner := LoadError("series", stderrors.New("missing"))
	outer := fmt.Errorf("reading primary: %w", inner)

	err := WithCode(CodeConfigInvalid, outer)
	assert.Equal(t, CodeConfigInvalid, GetCode(err))
	assert.Equal(t, "reading primary: failed to load series: missing", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestWithCodeSentinelMessageOnce(t *testing.T) {
	sentinel := stderrors.New("session not found")
	err := WithCode(CodeNotFound, fmt.Errorf("%w: abc", sentinel))

	assert.Equal(t, "session not found: abc", err.Error())
	assert.ErrorIs(t, err, sentinel)
}
