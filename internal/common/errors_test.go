package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputError(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := NewInputError(ErrInputInvalid, "Could not read data file", cause)
	assert.Equal(t, "Could not read data file: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, ErrInputInvalid)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrInputInvalid, InputKind(err))

	missing := NewInputError(ErrInputMissing, "Data file does not exist: r.json", nil)
	assert.Equal(t, "Data file does not exist: r.json", missing.Error())
	assert.ErrorIs(t, missing, ErrInputMissing)
	assert.NotErrorIs(t, missing, ErrInputInvalid)
	assert.Equal(t, ErrInputMissing, InputKind(fmt.Errorf("predict: %w", missing)))

	assert.Equal(t, ErrInputInvalid, InputKind(errors.New("boom")))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "plain error", err: errors.New("boom"), want: 1},
		{name: "exit error", err: &ExitError{Code: 3}, want: 3},
		{name: "wrapped exit error", err: fmt.Errorf("predict: %w", &ExitError{Err: ErrUsage, Code: 1}), want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}

	assert.Equal(t, "exit status 3", (&ExitError{Code: 3}).Error())
	assert.ErrorIs(t, &ExitError{Err: ErrUsage, Code: 1}, ErrUsage)
}
