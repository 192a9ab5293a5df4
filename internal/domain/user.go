package domain

import "time"

// User roles
const (
	RoleVoter = "voter"
	RoleAdmin = "admin"
)

// User is a registered account. PasswordHash is opaque to everything but
// the user service.
type User struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	FirstName    string      `json:"firstname"`
	LastName     string      `json:"lastname"`
	Picture      string      `json:"picture,omitempty"`
	PasswordHash string      `json:"-"`
	Role         string      `json:"userType"`
	Votes        []VoteEntry `json:"votes"`
	LastVisited  time.Time   `json:"lastVisited"`
	SignupDate   time.Time   `json:"signupDate"`
}

// VoteEntry is one denormalized line of a user's vote history, snapshotted
// at cast time. Later candidate edits do not update it.
type VoteEntry struct {
	Candidate      string `json:"candidate"`
	CandidateParty string `json:"candidateParty"`
	Category       string `json:"category"`
}

// HasVotedInCategory reports whether the history already holds an entry
// for the category.
func (u *User) HasVotedInCategory(category string) bool {
	for _, v := range u.Votes {
		if v.Category == category {
			return true
		}
	}
	return false
}

// SignupRequest is the payload for POST /auth/signup.
type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Status bool   `json:"status"`
	User   *User  `json:"user"`
	Token  string `json:"token"`
}
