package models

import "time"

// Product represents a product in the store. Amount is the available stock
// and is only ever decremented through the order-creation transaction.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"not null;type:varchar(100)"`
	Description string    `json:"description" gorm:"type:varchar(500)"`
	Price       float64   `json:"price" gorm:"not null"`
	Amount      int       `json:"amount" gorm:"not null"`
	CreatedAt   time.Time `json:"-"`
}

// ProductCreate is the payload for creating a product. The ID is always
// generated server-side.
type ProductCreate struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description string  `json:"description" validate:"max=500"`
	Price       float64 `json:"price" validate:"gte=0"`
	Amount      int     `json:"amount" validate:"gte=0"`
}

// ProductUpdate is the payload for partially updating a product. Pointer
// fields distinguish "absent" from "explicitly set to the zero value": only
// non-nil fields are applied.
type ProductUpdate struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string  `json:"description" validate:"omitempty,max=500"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Amount      *int     `json:"amount" validate:"omitempty,gte=0"`
}

// Changes returns the set fields as a column-to-value map for a partial update.
func (u ProductUpdate) Changes() map[string]any {
	changes := make(map[string]any)
	if u.Name != nil {
		changes["name"] = *u.Name
	}
	if u.Description != nil {
		changes["description"] = *u.Description
	}
	if u.Price != nil {
		changes["price"] = *u.Price
	}
	if u.Amount != nil {
		changes["amount"] = *u.Amount
	}
	return changes
}

// ProductInOrderItem is the trimmed product representation embedded in order
// item responses (no description or stock amount).
type ProductInOrderItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}
