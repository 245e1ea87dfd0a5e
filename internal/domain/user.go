package domain

import "time"

// DefaultAvatarURL is assigned to new accounts until the user picks an avatar.
const DefaultAvatarURL = "/uploads/avatars/boy.png"

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	AvatarURL    *string `json:"avatar_url"`
	Timestamps
	LastLogin time.Time `json:"lastLogin"`
}

// UserPatch lists the profile fields that may change. Nil means "leave as is".
type UserPatch struct {
	Name      *string
	Email     *string
	AvatarURL *string
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.AvatarURL == nil
}

// Apply copies the set fields onto u and refreshes UpdatedAt.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.AvatarURL != nil {
		avatar := *p.AvatarURL
		u.AvatarURL = &avatar
	}
	u.Touch()
}
