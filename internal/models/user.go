package models

import "gorm.io/gorm"

// User represents a registered customer of the store.
type User struct {
	gorm.Model
	Name     string    `json:"name" gorm:"type:varchar(100)"`
	Email    string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"` // always lower-cased
	Password string    `json:"-" gorm:"type:varchar(255);not null"`
	Products []Product `json:"products" gorm:"foreignKey:UserID"`
}
