package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		want      []string
	}{
		{
			name:      "valid password",
			candidate: "abc12!",
			want:      nil,
		},
		{
			name:      "too short but otherwise fine",
			candidate: "a!",
			want:      []string{ViolationTooShort},
		},
		{
			name:      "no letter",
			candidate: "123456!",
			want:      []string{ViolationMissingLetter},
		},
		{
			name:      "no special character",
			candidate: "abcdef1",
			want:      []string{ViolationMissingSpecial},
		},
		{
			name:      "all rules violated at once",
			candidate: "12345",
			want:      []string{ViolationTooShort, ViolationMissingLetter, ViolationMissingSpecial},
		},
		{
			name:      "empty password",
			candidate: "",
			want:      []string{ViolationTooShort, ViolationMissingLetter, ViolationMissingSpecial},
		},
		{
			name:      "every special in the set counts",
			candidate: "abcdef|",
			want:      nil,
		},
		{
			name:      "space is not special",
			candidate: "abc def",
			want:      []string{ViolationMissingSpecial},
		},
		{
			name:      "length counts characters not bytes",
			candidate: "ééé!a",
			want:      []string{ViolationTooShort},
		},
		{
			name:      "six multibyte characters satisfy the minimum",
			candidate: "éééé!a",
			want:      nil,
		},
		{
			name:      "over the bcrypt byte limit",
			candidate: strings.Repeat("a", 80) + "!",
			want:      []string{ViolationTooLong},
		},
		{
			name:      "exactly at the bcrypt byte limit",
			candidate: strings.Repeat("a", 71) + "!",
			want:      nil,
		},
		{
			name:      "multibyte characters count toward the byte limit",
			candidate: strings.Repeat("é", 40) + "a!",
			want:      []string{ViolationTooLong},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePassword(tt.candidate))
		})
	}
}

// Every rule is evaluated; violations always arrive in rule order.
func TestValidatePassword_ReportsAllViolationsInOrder(t *testing.T) {
	got := ValidatePassword("12")
	assert.Equal(t, []string{
		ViolationTooShort,
		ViolationMissingLetter,
		ViolationMissingSpecial,
	}, got)
}

func TestValidatePassword_ShortInputsAlwaysFlagLength(t *testing.T) {
	for _, p := range []string{"", "a", "a!", "ab!1", "abc1!"} {
		got := ValidatePassword(p)
		assert.Contains(t, got, ViolationTooShort, "password %q", p)
	}
}
