package model

import (
	"math"
	"time"
)

type RoomType string

const (
	RoomTypeStandard RoomType = "standard"
	RoomTypeDeluxe   RoomType = "deluxe"
	RoomTypeSuite    RoomType = "suite"
)

func (t RoomType) IsValid() bool {
	switch t {
	case RoomTypeStandard, RoomTypeDeluxe, RoomTypeSuite:
		return true
	}
	return false
}

type Room struct {
	ID               string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name             string    `json:"name" bson:"name"`
	Description      string    `json:"description" bson:"description"`
	ShortDescription string    `json:"short_description" bson:"short_description"`
	Type             RoomType  `json:"type" bson:"type"`
	Price            float64   `json:"price" bson:"price"`
	Capacity         int       `json:"capacity" bson:"capacity"`
	Size             int       `json:"size" bson:"size"`
	Amenities        []string  `json:"amenities" bson:"amenities"`
	Images           []string  `json:"images" bson:"images"`
	Featured         bool      `json:"featured" bson:"featured"`
	Discount         *float64  `json:"discount,omitempty" bson:"discount,omitempty"`
	IsAvailable      bool      `json:"is_available" bson:"is_available"`
	BookingVersion   int64     `json:"-" bson:"booking_version"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at"`
}

// EffectiveRate is the nightly price after the room discount (a percentage).
func (r *Room) EffectiveRate() float64 {
	if r.Discount == nil || *r.Discount <= 0 {
		return r.Price
	}
	return r.Price - r.Price*(*r.Discount)/100
}

// TotalPrice is the stay cost rounded to cents.
func (r *Room) TotalPrice(checkIn, checkOut time.Time) float64 {
	return roundCents(float64(Nights(checkIn, checkOut)) * r.EffectiveRate())
}

// Nights counts started 24h periods between check-in and check-out.
func Nights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours() / 24))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

type RoomFilter struct {
	Type     RoomType
	MinPrice *float64
	MaxPrice *float64
	Capacity int
}

type RoomAvailability struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}
