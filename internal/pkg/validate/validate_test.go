package validate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type request struct {
	Email     string `validate:"required,email"`
	Password  string `validate:"min=8"`
	Condition string `validate:"oneof=above below"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(request{Email: "a@b.io", Password: "12345678", Condition: "above"}))

	err := Struct(request{Email: "nope", Password: "short", Condition: "up"})
	require.ErrorIs(t, err, ErrInvalid)
	require.Contains(t, err.Error(), "email must be a valid email")
	require.Contains(t, err.Error(), "password must satisfy min=8")
	require.Contains(t, err.Error(), "condition must be one of [above below]")
}

func TestErrorf(t *testing.T) {
	err := Errorf("amount must be positive, got %s", "-1")
	require.ErrorIs(t, err, ErrInvalid)
	require.Equal(t, "invalid argument: amount must be positive, got -1", err.Error())
}
