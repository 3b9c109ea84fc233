package models

import "gorm.io/gorm"

// Product represents a product listed in the store by its owning user.
type Product struct {
	gorm.Model
	Name        string  `json:"name" gorm:"type:varchar(100)"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	UserID      uint    `json:"user_id" gorm:"index;not null"`
}
