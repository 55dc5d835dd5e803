package model

import "time"

type Client struct {
	Name      string    `gorm:"type:varchar(255);primaryKey"`
	LogoKey   *string   `gorm:"type:varchar(512)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Client) TableName() string {
	return "clients"
}

type ClientUser struct {
	ClientName   string    `gorm:"type:varchar(255);primaryKey"`
	Email        string    `gorm:"type:varchar(255);primaryKey"`
	Name         string    `gorm:"type:varchar(255);not null;default:''"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(20);not null;default:'client'"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (ClientUser) TableName() string {
	return "client_users"
}
