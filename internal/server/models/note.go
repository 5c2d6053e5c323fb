package models

import "time"

// Party is the public view of a note's sender or recipient.
type Party struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Note is a short text message sent from one account to another.
type Note struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	From      Party     `json:"from"`
	To        Party     `json:"to"`
	Read      bool      `json:"read"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OwnerID reports the sender; only the sender may edit or delete a note.
func (n *Note) OwnerID() int64 { return n.From.ID }
