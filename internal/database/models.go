package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Address is stored as JSONB on users and orders.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

type User struct {
	ID             uuid.UUID
	Name           string
	Email          string
	HashedPassword string
	Role           string
	IsActive       bool
	Phone          string
	Address        Address
	ProfilePicture string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type SizeOption struct {
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"available"`
}

// Sizes is the optional per-size price map of a menu item.
type Sizes struct {
	Small *SizeOption `json:"small,omitempty"`
	Large *SizeOption `json:"large,omitempty"`
}

type MenuItem struct {
	ID           uuid.UUID
	Name         string
	Description  string
	Price        decimal.Decimal
	Category     string
	SubCategory  *string
	Vegetarian   bool
	Available    bool
	ImageURL     string
	Sizes        Sizes
	RelatedItems []uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MenuItemSummary is the projection used when expanding related items.
type MenuItemSummary struct {
	ID       uuid.UUID
	Name     string
	Price    decimal.Decimal
	Category string
	ImageURL string
}

type Order struct {
	ID              uuid.UUID
	UserID          *uuid.UUID
	TotalAmount     decimal.Decimal
	Status          string
	DeliveryAddress Address
	PaymentMethod   string
	PaymentStatus   string
	TransactionID   string
	DeliveredAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Customizations is the normalized customization persisted with an order line.
type Customizations struct {
	Size                string   `json:"size,omitempty"`
	Variant             string   `json:"variant,omitempty"`
	Ingredient          string   `json:"ingredient,omitempty"`
	SpecialInstructions string   `json:"specialInstructions,omitempty"`
	SpecialItems        []string `json:"specialItems,omitempty"`
}

type OrderItem struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	MenuItemID     uuid.UUID
	Name           string
	Quantity       int32
	Price          decimal.Decimal
	Customizations *Customizations
	CreatedAt      time.Time
}

type Reservation struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Date      time.Time
	Time      string
	Guests    int32
	Name      string
	Email     string
	Phone     string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Review struct {
	ID         uuid.UUID
	MenuItemID uuid.UUID
	UserID     uuid.UUID
	Rating     int32
	Comment    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ContactMessage struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Subject   string
	Message   string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
