package model

import "time"

// RoleAdmin is the only role issued by this service.
const RoleAdmin = "admin"

// Admin is the single administrator credential stored in the `admins`
// table.  It is created by the seed command and only ever updated through
// the profile endpoint.
//
// Fields:
//  ID           – primary key (uuid).
//  Email        – unique login email.
//  PasswordHash – bcrypt hash.
//  Role         – always "admin" today.
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
