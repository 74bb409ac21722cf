package domain

import "time"

// User is a single benchmark record. The id is assigned by the store on
// creation; only the email changes after that.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
