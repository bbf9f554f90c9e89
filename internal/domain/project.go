package domain

import "time"

// Project is owned by exactly one user. UniqueID is a caller-supplied
// business identifier, distinct from the storage-generated ID.
type Project struct {
	ID        string
	Name      string
	UniqueID  string
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
