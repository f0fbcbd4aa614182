// Package models defines server-side data models persisted in the database.
package models

// User is a registered account. Password holds the bcrypt hash and is never
// serialized into responses or tokens.
type User struct {
	ID       int64  `json:"id"`
	FName    string `json:"fname"`
	LName    string `json:"lname"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Position string `json:"position"`
}

// Public returns a copy of u with the password hash removed.
func (u User) Public() User {
	u.Password = ""
	return u
}
