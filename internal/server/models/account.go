// Package models defines server-side data models persisted in the database.
package models

import "time"

// Account is a registered user. PasswordHash is never serialized.
type Account struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	Picture      string    `json:"picture,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// OwnerID reports the account that owns this record: the account itself.
func (a *Account) OwnerID() int64 { return a.ID }
