package domain

import "time"

type UserRole string

const (
	RoleClient UserRole = "client"
	RoleGuard  UserRole = "guard"
	RoleAdmin  UserRole = "admin"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255" validate:"required,email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role" gorm:"size:32"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Bicycles []Bicycle `json:"bicycles,omitempty" gorm:"foreignKey:OwnerID"`
}

type Bicycle struct {
	ID           int64     `json:"id"`
	OwnerID      int64     `json:"owner_id" gorm:"index"`
	Label        string    `json:"label"`
	SerialNumber string    `json:"serial_number,omitempty" gorm:"size:64"`
	Color        string    `json:"color,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
