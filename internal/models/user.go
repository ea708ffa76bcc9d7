package models

import (
	"time"
)

// User is a registered API client. ClientSecretHash holds the bcrypt hash
// of the secret handed out once at registration.
type User struct {
	ID               string    `json:"clientID"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	MobileNo         string    `json:"mobileNo"`
	GithubUsername   string    `json:"githubUsername"`
	RollNo           string    `json:"rollNo"`
	AccessCode       string    `json:"-"`
	ClientSecretHash string    `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type RegisterInput struct {
	Email          string
	Name           string
	MobileNo       string
	GithubUsername string
	RollNo         string
	AccessCode     string
}

// Registration is returned exactly once, on successful registration.
type Registration struct {
	User         *User
	ClientSecret string
}

type TokenInput struct {
	ClientID     string
	ClientSecret string
	Email        string
	Name         string
	RollNo       string
	AccessCode   string
}

type IssuedToken struct {
	TokenType   string
	AccessToken string
	ExpiresAt   time.Time
}
