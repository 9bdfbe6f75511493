package models

import "time"

// OrderStatus enumerates the lifecycle states of an order.
type OrderStatus string

const (
	StatusCreated    OrderStatus = "created"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCanceled   OrderStatus = "canceled"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusCreated, StatusProcessing, StatusShipped, StatusDelivered, StatusCanceled:
		return true
	}
	return false
}

// Order represents a customer order. Items are owned by the order and are
// created and deleted with it.
type Order struct {
	ID           string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CreationDate time.Time   `json:"creation_date" gorm:"not null"`
	Status       OrderStatus `json:"status" gorm:"not null;type:varchar(16)"`
	Items        []OrderItem `json:"order_items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem is one line item of an order. Both foreign keys are nullable at
// the schema level so an item survives deletion of its product; application
// code always populates them at creation time.
type OrderItem struct {
	ID        string   `json:"-" gorm:"primaryKey;type:varchar(36)"`
	Amount    int      `json:"amount" gorm:"not null"`
	OrderID   *string  `json:"-" gorm:"type:varchar(36);index"`
	ProductID *string  `json:"-" gorm:"type:varchar(36)"`
	Product   *Product `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL"`
}

// OrderItemCreate is one requested line item in an order-creation payload.
type OrderItemCreate struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Amount    int    `json:"amount" validate:"required,gt=0"`
}

// OrderCreate is the payload for creating an order. At least one item is
// required; an order without items is invalid.
type OrderCreate struct {
	Items []OrderItemCreate `json:"order_items" validate:"required,min=1,dive"`
}

// OrderItemResponse renders a line item with its product trimmed down. The
// product is null when it has been deleted since the order was placed.
type OrderItemResponse struct {
	Amount  int                 `json:"amount"`
	Product *ProductInOrderItem `json:"product"`
}

// OrderResponse is the API representation of an order with its items.
type OrderResponse struct {
	ID           string              `json:"id"`
	CreationDate time.Time           `json:"creation_date"`
	Status       OrderStatus         `json:"status"`
	Items        []OrderItemResponse `json:"order_items"`
}

// Response converts the order into its API representation.
func (o *Order) Response() OrderResponse {
	resp := OrderResponse{
		ID:           o.ID,
		CreationDate: o.CreationDate,
		Status:       o.Status,
		Items:        make([]OrderItemResponse, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		itemResp := OrderItemResponse{Amount: item.Amount}
		if item.Product != nil {
			itemResp.Product = &ProductInOrderItem{
				ID:    item.Product.ID,
				Name:  item.Product.Name,
				Price: item.Product.Price,
			}
		}
		resp.Items = append(resp.Items, itemResp)
	}
	return resp
}
