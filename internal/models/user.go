// Package models provides domain entities for the goUserRegistry service.
package models

// User represents a registered user. UserName is the natural key and must be
// unique across the registry; Address is the only optional field.
type User struct {
	UserName  string  `json:"user_name"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Address   *string `json:"address,omitempty"`
}
