package request

import (
	"encoding/json"
	"strings"
)

type Login struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r Login) MarshalJSON() ([]byte, error) {
	type login Login
	masked := login(r)
	masked.Password = strings.Repeat("*", len(r.Password))
	return json.Marshal(masked)
}

type Register struct {
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	ContactNo string `json:"contactNo"`
}

func (r Register) MarshalJSON() ([]byte, error) {
	type register Register
	masked := register(r)
	masked.Password = strings.Repeat("*", len(r.Password))
	return json.Marshal(masked)
}
