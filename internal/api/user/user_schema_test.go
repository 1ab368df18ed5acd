package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-user-admin/internal/types"
)

func validInput() types.UserInput {
	return types.UserInput{
		Name:          "Jane Doe",
		Email:         "jane@example.com",
		Address:       "12 Main St",
		Birthday:      "1990-05-01",
		ContactNumber: "09171234567",
	}
}

func TestValidateInput_Normalizes(t *testing.T) {
	in := validInput()
	in.Name = "  Jane Doe "
	in.Email = "  Jane@Example.COM "

	out, err := ValidateInput(in)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", out.Name)
	assert.Equal(t, "jane@example.com", out.Email)
}

func TestValidateInput_Rules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*types.UserInput)
		wantMsg string
	}{
		{name: "empty name", mutate: func(in *types.UserInput) { in.Name = "" }, wantMsg: "name is required"},
		{name: "blank address", mutate: func(in *types.UserInput) { in.Address = "   " }, wantMsg: "address is required"},
		{name: "malformed email", mutate: func(in *types.UserInput) { in.Email = "not-an-email" }, wantMsg: "email must be a valid email address"},
		{name: "bad birthday", mutate: func(in *types.UserInput) { in.Birthday = "1990-13-45" }, wantMsg: "birthday must be a valid date"},
		{name: "letters in contact", mutate: func(in *types.UserInput) { in.ContactNumber = "0917abc4567" }, wantMsg: "Contact number must contain numbers only"},
		{name: "5 digit contact", mutate: func(in *types.UserInput) { in.ContactNumber = "12345" }, wantMsg: "Contact number must be at least 7 digits"},
		{name: "17 digit contact", mutate: func(in *types.UserInput) { in.ContactNumber = "12345678901234567" }, wantMsg: "Contact number must be at most 15 digits"},
		{name: "first violation wins", mutate: func(in *types.UserInput) { in.Name = ""; in.ContactNumber = "1" }, wantMsg: "name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, err := ValidateInput(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrInvalidInput)
			assert.Equal(t, tt.wantMsg, types.MessageOf(err))
		})
	}
}

func TestValidateInput_ContactNumberBounds(t *testing.T) {
	for _, number := range []string{"1234567", "123456789012345"} {
		in := validInput()
		in.ContactNumber = number
		_, err := ValidateInput(in)
		assert.NoError(t, err, number)
	}
}

func TestParseBirthday(t *testing.T) {
	want := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{"1990-05-01", "1990-05-01T08:30:00Z", "1990-05-01T08:30:00.123456789Z"} {
		got, err := types.ParseBirthday(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}
	_, err := types.ParseBirthday("May 1st")
	assert.Error(t, err)
}
