package response

import "github.com/google/uuid"

type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type Login struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
