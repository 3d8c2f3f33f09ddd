package model

import "time"

// User is an account that can own packing lists.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Hash      string    `json:"-"` // Never expose password hash
	AuthorOf  []string  `json:"author_of"`
	CreatedOn time.Time `json:"created_on"`
}

// Owns reports whether packListID is in u's author_of list.
func (u *User) Owns(packListID string) bool {
	for _, id := range u.AuthorOf {
		if id == packListID {
			return true
		}
	}
	return false
}

// UserView is the public shape of a User.
type UserView struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email,omitempty"`
	AuthorOf []string `json:"author_of"`
}

// Serialize renders u for output.
func (u *User) Serialize() *UserView {
	authorOf := u.AuthorOf
	if authorOf == nil {
		authorOf = []string{}
	}
	return &UserView{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		AuthorOf: authorOf,
	}
}
