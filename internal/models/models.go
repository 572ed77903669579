package models

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`
	// Most recently issued refresh token, nil when none or invalidated.
	// Only the stored value is accepted on refresh.
	RefreshToken *string `gorm:"size:500" json:"-"`
}

type Product struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null"                 json:"name"`
	Price     float64   `gorm:"not null"                 json:"price"`
	CreatedAt time.Time `gorm:"autoCreateTime"           json:"createdAt"`
}
