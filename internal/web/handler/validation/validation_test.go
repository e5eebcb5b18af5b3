package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usermgmt-go/usermgmt/internal/dto"
)

func TestStructCreateUserInput(t *testing.T) {
	long := strings.Repeat("x", 101)
	phone := strings.Repeat("1", 21)

	tests := []struct {
		name string
		in   dto.CreateUserInput
		want []FieldError
	}{
		{
			name: "valid",
			in:   dto.CreateUserInput{FirstName: "John", LastName: "Doe", Email: "john@example.com", GroupIDs: []int{1}},
		},
		{
			name: "missing required",
			in:   dto.CreateUserInput{},
			want: []FieldError{
				{Field: "firstName", Tag: "required", Message: "firstName is required."},
				{Field: "lastName", Tag: "required", Message: "lastName is required."},
				{Field: "email", Tag: "required", Message: "email is required."},
			},
		},
		{
			name: "bad email and long name",
			in:   dto.CreateUserInput{FirstName: long, LastName: "Doe", Email: "not-an-email"},
			want: []FieldError{
				{Field: "firstName", Tag: "max", Message: "firstName must be at most 100 characters long."},
				{Field: "email", Tag: "email", Message: "email must be a valid email address."},
			},
		},
		{
			name: "long phone and zero group id",
			in: dto.CreateUserInput{
				FirstName: "John", LastName: "Doe", Email: "john@example.com", PhoneNumber: &phone, GroupIDs: []int{1, 0},
			},
			want: []FieldError{
				{Field: "phoneNumber", Tag: "max", Message: "phoneNumber must be at most 20 characters long."},
				{Field: "groupIds[1]", Tag: "gt", Message: "groupIds[1] must be greater than 0."},
			},
		},
		{
			name: "negative group id",
			in:   dto.CreateUserInput{FirstName: "John", LastName: "Doe", Email: "john@example.com", GroupIDs: []int{-4}},
			want: []FieldError{
				{Field: "groupIds[0]", Tag: "gt", Message: "groupIds[0] must be greater than 0."},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.in)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.want, Fields(err))
		})
	}
}

func TestEmailTooLong(t *testing.T) {
	in := dto.UpdateUserInput{
		FirstName: "John",
		LastName:  "Doe",
		Email:     strings.Repeat("a", 250) + "@example.com",
	}

	fields := Fields(Struct(&in))
	require.NotEmpty(t, fields)
	assert.Equal(t, "email", fields[0].Field)
}

func TestFieldsOtherError(t *testing.T) {
	assert.Nil(t, Fields(errors.New("plain"))) //nolint:goerr113
	assert.Nil(t, Fields(nil))
}
