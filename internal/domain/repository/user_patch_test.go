package repository

import (
	"testing"

	"passport/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func rolePtr(r entity.Role) *entity.Role { return &r }

func TestUserPatch_Apply(t *testing.T) {
	baseline := entity.User{
		Email:        "old@example.com",
		FullName:     "Old Name",
		Role:         entity.RoleUser,
		PasswordHash: "stored_hash",
		IsActive:     true,
	}

	tests := []struct {
		name     string
		patch    UserPatch
		expected func(u *entity.User)
	}{
		{
			name:     "empty patch changes nothing",
			patch:    UserPatch{},
			expected: func(u *entity.User) {},
		},
		{
			name:  "email is normalized on the way in",
			patch: UserPatch{Email: strPtr("  New@Example.COM ")},
			expected: func(u *entity.User) {
				u.Email = "new@example.com"
			},
		},
		{
			name:  "full name replaces verbatim",
			patch: UserPatch{FullName: strPtr("New Name")},
			expected: func(u *entity.User) {
				u.FullName = "New Name"
			},
		},
		{
			name:  "valid role is applied",
			patch: UserPatch{Role: rolePtr(entity.RoleAdmin)},
			expected: func(u *entity.User) {
				u.Role = entity.RoleAdmin
			},
		},
		{
			name:     "invalid role is ignored",
			patch:    UserPatch{Role: rolePtr(entity.Role("superuser"))},
			expected: func(u *entity.User) {},
		},
		{
			name: "combined patch touches only named fields",
			patch: UserPatch{
				Email:    strPtr("new@example.com"),
				FullName: strPtr("New Name"),
			},
			expected: func(u *entity.User) {
				u.Email = "new@example.com"
				u.FullName = "New Name"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := baseline
			expected := baseline
			tt.expected(&expected)

			tt.patch.Apply(&user)

			assert.Equal(t, expected, user)
			// A patch can never touch credential material.
			assert.Equal(t, "stored_hash", user.PasswordHash)
		})
	}
}

func TestUserPatch_IsEmpty(t *testing.T) {
	assert.True(t, UserPatch{}.IsEmpty())
	assert.False(t, UserPatch{Email: strPtr("a@example.com")}.IsEmpty())
	assert.False(t, UserPatch{FullName: strPtr("Name")}.IsEmpty())
	assert.False(t, UserPatch{Role: rolePtr(entity.RoleUser)}.IsEmpty())
}
