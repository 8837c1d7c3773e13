package domain

import "time"

// CREATE TABLE public.products (
//     id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     name        TEXT NOT NULL,
//     description TEXT,
//     category    TEXT,
//     price       NUMERIC,
//     image       TEXT,
//     views       BIGINT DEFAULT 0,
//     purchases   BIGINT DEFAULT 0,
//     created_at  TIMESTAMPTZ DEFAULT NOW()
// );

type Product struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;type:text;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Category    string    `gorm:"column:category;type:text" json:"category"`
	Price       float64   `gorm:"column:price;type:numeric" json:"price"`
	Image       string    `gorm:"column:image;type:text" json:"image"`
	Views       int64     `gorm:"column:views;default:0" json:"views"`
	Purchases   int64     `gorm:"column:purchases;default:0" json:"purchases"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Product) TableName() string {
	return "products"
}
