package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	v := NewPhoneValidator()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"Plain Number", "0771234567", "0771234567", nil},
		{"With Spaces", "077 123 4567", "0771234567", nil},
		{"With Dashes", "077-123-4567", "0771234567", nil},
		{"With Country Code", "+94771234567", "0771234567", nil},
		{"Country Code No Plus", "94771234567", "0771234567", nil},
		{"Mobitel Prefix", "0711234567", "0711234567", nil},
		{"Airtel Prefix", "0751234567", "0751234567", nil},
		{"Empty", "", "", ErrEmptyPhone},
		{"Letters", "07712345ab", "", ErrInvalidFormat},
		{"Too Short", "077123456", "", ErrInvalidLength},
		{"Too Long", "07712345678", "", ErrInvalidLength},
		{"Landline Prefix", "0112345678", "", ErrInvalidPrefix},
		{"Bad Prefix", "0731234567", "", ErrInvalidPrefix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Validate(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat(t *testing.T) {
	v := NewPhoneValidator()

	formatted, err := v.Format("+94 77 123 4567")
	require.NoError(t, err)
	assert.Equal(t, "077 123 4567", formatted)

	_, err = v.Format("12345")
	assert.Error(t, err)
}

func TestIsValid(t *testing.T) {
	v := NewPhoneValidator()

	assert.True(t, v.IsValid("0771234567"))
	assert.False(t, v.IsValid("0112345678"))
	assert.False(t, v.IsValid(""))
}
