package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title              string             `bson:"title" json:"title"`
	Slug               string             `bson:"slug" json:"slug"`
	Description        string             `bson:"description" json:"description"`
	ImageCover         string             `bson:"imageCover,omitempty" json:"imageCover,omitempty"`
	Images             []string           `bson:"images,omitempty" json:"images,omitempty"`
	Price              float64            `bson:"price" json:"price"`
	PriceAfterDiscount float64            `bson:"priceAfterDiscount,omitempty" json:"priceAfterDiscount,omitempty"`
	Stock              int                `bson:"stock" json:"stock"`
	Sold               int                `bson:"sold" json:"sold"`
	Category           primitive.ObjectID `bson:"category,omitempty" json:"category,omitempty"`
	Brand              primitive.ObjectID `bson:"brand,omitempty" json:"brand,omitempty"`

	// Rental attributes
	Rentable           bool    `bson:"isRentable" json:"isRentable"`
	RentalPricePerDay  float64 `bson:"rentalPricePerDay,omitempty" json:"rentalPricePerDay,omitempty"`
	RentalDeposit      float64 `bson:"rentalDeposit,omitempty" json:"rentalDeposit,omitempty"`
	RentalStock        int     `bson:"rentalStock,omitempty" json:"rentalStock,omitempty"`
	AvailableForRental bool    `bson:"availableForRental" json:"availableForRental"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
