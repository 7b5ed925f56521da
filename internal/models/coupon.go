package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Coupon struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code      string             `bson:"code" json:"code"`
	Discount  float64            `bson:"discount" json:"discount"`
	Expires   time.Time          `bson:"expires" json:"expires"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

func (c *Coupon) Expired(now time.Time) bool {
	return c.Expires.Before(now)
}
