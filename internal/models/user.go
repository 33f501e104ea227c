package models

import (
	"time"

	"github.com/taskhive/taskhive/internal/roles"
)

// AccountStatus is the liveness state reported by the status endpoint.
type AccountStatus string

const (
	StatusActive   AccountStatus = "ACTIVE"
	StatusInactive AccountStatus = "INACTIVE"
)

// User is an application account. PasswordHash never leaves the server.
type User struct {
	ID               string        `bson:"_id,omitempty" json:"id"`
	Username         string        `bson:"username" json:"username"`
	Email            string        `bson:"email" json:"email"`
	FullName         string        `bson:"fullName" json:"fullName"`
	PhoneNumber      string        `bson:"phoneNumber" json:"phoneNumber"`
	Role             roles.Role    `bson:"role" json:"role"`
	Status           AccountStatus `bson:"status" json:"status"`
	PasswordHash     string        `bson:"passwordHash" json:"-"`
	CreatedDate      time.Time     `bson:"createdDate" json:"createdDate"`
	LastModifiedDate time.Time     `bson:"lastModifiedDate" json:"lastModifiedDate"`
}

// Active reports whether the account may hold a live session.
func (u *User) Active() bool { return u.Status == StatusActive }
