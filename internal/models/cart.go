package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Title    string             `bson:"title,omitempty" json:"title,omitempty"`
	Image    string             `bson:"image,omitempty" json:"image,omitempty"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
}

type Cart struct {
	ID                      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User                    primitive.ObjectID `bson:"user" json:"user"`
	Items                   []CartItem         `bson:"cartItems" json:"cartItems"`
	TotalPrice              float64            `bson:"totalCartPrice" json:"totalCartPrice"`
	Discount                float64            `bson:"discount,omitempty" json:"discount,omitempty"`
	TotalPriceAfterDiscount float64            `bson:"totalPriceAfterDiscount,omitempty" json:"totalPriceAfterDiscount,omitempty"`
	CreatedAt               time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt               time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EffectiveTotal is the amount a checkout charges for the cart. The
// presence of a discount decides which total applies, so a 100% coupon
// with an after-discount total of 0 still charges 0.
func (c *Cart) EffectiveTotal() float64 {
	if c.Discount > 0 {
		return c.TotalPriceAfterDiscount
	}
	return c.TotalPrice
}
