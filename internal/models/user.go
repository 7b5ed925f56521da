package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Address struct {
	Alias  string `bson:"alias,omitempty" json:"alias,omitempty"`
	City   string `bson:"city" json:"city"`
	Street string `bson:"street" json:"street"`
	Phone  string `bson:"phone" json:"phone"`
}

type User struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name              string               `bson:"name" json:"name"`
	Email             string               `bson:"email" json:"email"`
	Phone             string               `bson:"phone,omitempty" json:"phone,omitempty"`
	Password          string               `bson:"password" json:"-"`
	Role              string               `bson:"role" json:"role"`
	Blocked           bool                 `bson:"isBlocked" json:"isBlocked"`
	PasswordChangedAt time.Time            `bson:"passwordChangedAt,omitempty" json:"-"`
	Wishlist          []primitive.ObjectID `bson:"wishlist,omitempty" json:"wishlist,omitempty"`
	Addresses         []Address            `bson:"addresses,omitempty" json:"addresses,omitempty"`
	CreatedAt         time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time            `bson:"updatedAt" json:"updatedAt"`
}
