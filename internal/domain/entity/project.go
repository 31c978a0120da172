package entity

import "time"

// Project belongs to exactly one client; work entries reference both and the
// pair must agree.
type Project struct {
	ID        string
	ClientID  string
	Name      string
	CreatedAt time.Time
}
