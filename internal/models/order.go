package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentCash = "cash"
	PaymentCard = "card"
)

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User            primitive.ObjectID `bson:"user" json:"user"`
	Items           []CartItem         `bson:"orderItems" json:"orderItems"`
	ShippingAddress Address            `bson:"shippingAddress" json:"shippingAddress"`
	TotalPrice      float64            `bson:"totalOrderPrice" json:"totalOrderPrice"`
	PaymentType     string             `bson:"paymentType" json:"paymentType"`
	IsPaid          bool               `bson:"isPaid" json:"isPaid"`
	PaidAt          *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	IsDelivered     bool               `bson:"isDelivered" json:"isDelivered"`
	DeliveredAt     *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	SessionID       string             `bson:"sessionId,omitempty" json:"sessionId,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}
