package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_Ok(t *testing.T) {
	r := Ok(42)

	assert.True(t, r.IsSuccess())
	assert.False(t, r.IsFailure())
	assert.Equal(t, 42, r.Value())
	assert.Nil(t, r.ErrValue())
}

func TestResult_Err(t *testing.T) {
	r := Err[int](ErrUserNotFound)

	assert.True(t, r.IsFailure())
	assert.False(t, r.IsSuccess())
	require.NotNil(t, r.ErrValue())
	assert.Equal(t, ErrUserNotFound, r.ErrValue())
}

func TestResult_OkUnit(t *testing.T) {
	r := OkUnit()

	assert.True(t, r.IsSuccess())
}

func TestFold_Success(t *testing.T) {
	r := Ok("hello")

	out := Fold(r,
		func(v string) string { return v + " world" },
		func(err DomainError) string { return "error: " + err.Error() },
	)

	assert.Equal(t, "hello world", out)
}

func TestFold_Failure(t *testing.T) {
	r := Err[string](ErrRecipeNotFound)

	out := Fold(r,
		func(v string) string { return v },
		func(err DomainError) string { return "error: " + err.Error() },
	)

	assert.Equal(t, "error: recipe not found", out)
}

func TestUserError_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  UserError
		want string
	}{
		{"not found", ErrUserNotFound, "user not found"},
		{"wrong password", ErrWrongPassword, "wrong password"},
		{"username in use", ErrUsernameInUse, "username already in use"},
		{"custom message wins", UnknownUserError("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestProduct_LocalizedName(t *testing.T) {
	p := Product{
		Barcode:     "123",
		DefaultName: "Acqua",
		NameEN:      "Water",
		NameIT:      "Acqua Minerale",
	}

	assert.Equal(t, "Water", p.LocalizedName("en"))
	assert.Equal(t, "Acqua Minerale", p.LocalizedName("it"))
	// Missing localisation falls back to the default name.
	assert.Equal(t, "Acqua", p.LocalizedName("es"))
	assert.Equal(t, "Acqua", p.LocalizedName("fr"))
}
