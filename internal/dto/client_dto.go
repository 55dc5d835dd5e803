package dto

import "time"

type CreateClientRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

type RenameClientRequest struct {
	OldName string
	NewName string `json:"new_name" validate:"required,min=1,max=200"`
}

type ClientResponse struct {
	Name      string    `json:"name"`
	LogoURL   string    `json:"logo_url,omitempty"`
	Positions int       `json:"positions"`
	CreatedAt time.Time `json:"created_at"`
}

type ClientMetaResponse struct {
	Name    string  `json:"name"`
	LogoURL *string `json:"logo_url"`
}

type CreateClientUserRequest struct {
	ClientName string
	Email      string `json:"email" validate:"required,email"`
	Name       string `json:"name" validate:"required,min=1,max=200"`
	Password   string `json:"password" validate:"required,min=8"`
	Role       string `json:"role" validate:"omitempty,oneof=client viewer"`
}

type ClientUserResponse struct {
	ClientName string    `json:"client_name"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}
