package models

import "time"

type User struct {
	ID            string  `gorm:"primaryKey" json:"id"`
	Email         string  `gorm:"unique;not null" json:"email"`
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	Provider      string  `json:"provider"`
	Address       Address `gorm:"embedded" json:"address"`
	CanViewPrices bool    `json:"can_view_prices"`
	Approved      bool    `json:"approved"`
	CreatedAt     time.Time
}

// Address model embedded in User
type Address struct {
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
}
