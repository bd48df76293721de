package models

import "time"

type Notification struct {
	ID        string
	UserID    string
	Message   string
	Read      bool
	CreatedAt time.Time
}
