package model

import (
	"time"
)

type MenuCategory string

const (
	MenuCategoryBreakfast MenuCategory = "breakfast"
	MenuCategoryLunch     MenuCategory = "lunch"
	MenuCategoryDinner    MenuCategory = "dinner"
	MenuCategorySnacks    MenuCategory = "snacks"
	MenuCategoryBeverages MenuCategory = "beverages"
)

func (c MenuCategory) IsValid() bool {
	switch c {
	case MenuCategoryBreakfast, MenuCategoryLunch, MenuCategoryDinner, MenuCategorySnacks, MenuCategoryBeverages:
		return true
	}
	return false
}

type FoodOrderStatus string

const (
	FoodOrderStatusPending   FoodOrderStatus = "pending"
	FoodOrderStatusPreparing FoodOrderStatus = "preparing"
	FoodOrderStatusReady     FoodOrderStatus = "ready"
	FoodOrderStatusDelivered FoodOrderStatus = "delivered"
	FoodOrderStatusCancelled FoodOrderStatus = "cancelled"
)

func (s FoodOrderStatus) IsValid() bool {
	switch s {
	case FoodOrderStatusPending, FoodOrderStatusPreparing, FoodOrderStatusReady,
		FoodOrderStatusDelivered, FoodOrderStatusCancelled:
		return true
	}
	return false
}

type MenuItem struct {
	ID              string       `json:"id,omitempty" bson:"_id,omitempty"`
	Name            string       `json:"name" bson:"name"`
	Description     string       `json:"description" bson:"description"`
	Price           float64      `json:"price" bson:"price"`
	Category        MenuCategory `json:"category" bson:"category"`
	Vegetarian      bool         `json:"vegetarian" bson:"vegetarian"`
	IsAvailable     bool         `json:"is_available" bson:"is_available"`
	Image           string       `json:"image,omitempty" bson:"image,omitempty"`
	PreparationTime int          `json:"preparation_time" bson:"preparation_time"` // minutes
	CreatedAt       time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at" bson:"updated_at"`
}

// FoodOrderItem keeps the unit price the guest was charged, so later menu price
// changes do not alter past orders.
type FoodOrderItem struct {
	MenuItemID          string  `json:"menu_item_id" bson:"menu_item_id"`
	Name                string  `json:"name" bson:"name"`
	Quantity            int     `json:"quantity" bson:"quantity"`
	UnitPrice           float64 `json:"unit_price" bson:"unit_price"`
	SpecialInstructions string  `json:"special_instructions,omitempty" bson:"special_instructions,omitempty"`
}

type FoodOrder struct {
	ID               string          `json:"id,omitempty" bson:"_id,omitempty"`
	UserID           string          `json:"user_id" bson:"user_id"`
	BookingID        string          `json:"booking_id" bson:"booking_id"`
	Items            []FoodOrderItem `json:"items" bson:"items"`
	TotalPrice       float64         `json:"total_price" bson:"total_price"`
	Status           FoodOrderStatus `json:"status" bson:"status"`
	DeliveryLocation string          `json:"delivery_location" bson:"delivery_location"`
	CreatedAt        time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" bson:"updated_at"`
}

// PriceFoodOrder sums unit price times quantity over items, rounded to cents.
func PriceFoodOrder(items []FoodOrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return roundCents(total)
}

type FoodOrderItemRequest struct {
	MenuItemID          string `json:"menu_item_id" validate:"required,mongodb"`
	Quantity            int    `json:"quantity" validate:"required,min=1,max=20"`
	SpecialInstructions string `json:"special_instructions,omitempty" validate:"omitempty,max=500"`
}

type CreateFoodOrderRequest struct {
	BookingID        string                 `json:"booking_id" validate:"required,mongodb"`
	Items            []FoodOrderItemRequest `json:"items" validate:"required,min=1,max=50,dive"`
	DeliveryLocation string                 `json:"delivery_location" validate:"required,max=100"`
}
