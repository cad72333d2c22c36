package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"":           RoleJobSeeker,
		"jobseeker":  RoleJobSeeker,
		" Employer ": RoleEmployer,
		"ADMIN":      RoleAdmin,
	}
	for in, want := range cases {
		got, ok := ParseRole(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseRole("recruiter")
	assert.False(t, ok)
}

func TestSanitized(t *testing.T) {
	exp := time.Now()
	u := User{Email: "a@x.com", PasswordHash: "hash", ResetPasswordToken: "tok", ResetPasswordExpire: &exp}
	s := u.Sanitized()
	assert.Empty(t, s.PasswordHash)
	assert.Empty(t, s.ResetPasswordToken)
	assert.Nil(t, s.ResetPasswordExpire)
	assert.Equal(t, "a@x.com", s.Email)
	assert.Equal(t, "hash", u.PasswordHash)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@x.com", NormalizeEmail("  Alice@X.com "))
}
