// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Author writes books.
type Author struct {
	ID        int64     `json:"id" db:"id" gorm:"primaryKey"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (Author) TableName() string { return "authors" }

// Book is a title on the shelf. Author is only filled when eager-loaded.
type Book struct {
	ID          int64           `json:"id" db:"id" gorm:"primaryKey"`
	AuthorID    int64           `json:"author_id" db:"author_id"`
	Title       string          `json:"title" db:"title"`
	Price       decimal.Decimal `json:"price" db:"price" gorm:"type:numeric(10,2)"`
	PublishedAt *time.Time      `json:"published_at,omitempty" db:"published_at"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
	Author      *Author         `json:"author,omitempty" db:"-" gorm:"foreignKey:AuthorID"`
}

func (Book) TableName() string { return "books" }
