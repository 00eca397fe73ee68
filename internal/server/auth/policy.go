package auth

import (
	"strings"
	"unicode/utf8"
)

// Password policy constants. Candidates failing any rule are rejected with
// the full list of violations so the caller can fix everything at once.
const (
	// MinPasswordLength is counted in characters, not bytes.
	MinPasswordLength = 6

	// MaxPasswordBytes is the bcrypt input limit; anything longer would be
	// rejected at hashing time, so the policy reports it up front.
	MaxPasswordBytes = 72

	// SpecialChars is the set of characters accepted as "special".
	SpecialChars = "!@#$%^&*()-_=+[]{};:'\",.<>/?`~|"
)

// Violation messages, stable and user-facing.
const (
	ViolationTooShort       = "Password must be at least 6 characters long"
	ViolationTooLong        = "Password must be at most 72 characters long"
	ViolationMissingLetter  = "Password must contain at least one letter"
	ViolationMissingSpecial = "Password must contain at least one special character"
	ViolationSameAsCurrent  = "New password must be different from current password"
)

// ValidatePassword checks candidate against the password policy and returns
// every violated rule in order. An empty result means the candidate is
// acceptable. All rules are evaluated, never short-circuited.
func ValidatePassword(candidate string) []string {
	var violations []string

	if utf8.RuneCountInString(candidate) < MinPasswordLength {
		violations = append(violations, ViolationTooShort)
	}
	if len(candidate) > MaxPasswordBytes {
		violations = append(violations, ViolationTooLong)
	}
	if !containsLetter(candidate) {
		violations = append(violations, ViolationMissingLetter)
	}
	if !strings.ContainsAny(candidate, SpecialChars) {
		violations = append(violations, ViolationMissingSpecial)
	}

	return violations
}

func containsLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
