package entity

import "time"

// Client is a tenant organization. The name is the addressing key across
// both record and blob storage; renaming it is a migration.
type Client struct {
	Name      string
	LogoKey   *string
	CreatedAt time.Time
}

// ClientUser is a credentialed user scoped to exactly one client.
type ClientUser struct {
	ClientName   string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}
