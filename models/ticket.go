package models

import "time"

type Ticket struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	TicketNumber string       `gorm:"type:varchar(100);not null" json:"ticket_number"`
	UserID       uint         `gorm:"not null" json:"user_id"`
	User         User         `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"user"`
	Total        float64      `gorm:"type:decimal(12,2);not null" json:"total"`
	Lines        []TicketLine `gorm:"foreignKey:TicketID" json:"lines"`
	CreatedAt    time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null" json:"updated_at"`
}

type TicketLine struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TicketID uint   `gorm:"not null" json:"ticket_id"`
	// Omit Ticket dari JSON untuk menghindari nesting rekursif
	Ticket    Ticket  `gorm:"foreignKey:TicketID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ProductID uint    `gorm:"not null" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"product"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	// Harga satuan pada saat penjualan, bukan harga produk sekarang
	UnitPrice float64   `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Subtotal  float64   `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
