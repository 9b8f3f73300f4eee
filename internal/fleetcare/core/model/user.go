package model

import (
	"slices"
	"time"
)

// User is a customer account. Only a password hash is kept.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash []byte
}

func (u *User) Clone() *User {
	cp := *u
	cp.PasswordHash = slices.Clone(u.PasswordHash)
	return &cp
}

// ProfileUpdate carries the editable profile fields. Empty fields are left
// unchanged.
type ProfileUpdate struct {
	Name  string
	Email string
	Phone string
}

// Session is the result of a successful login.
type Session struct {
	User      User
	Token     string
	ExpiresAt time.Time
}
