package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RentalPending   = "pending"
	RentalApproved  = "approved"
	RentalRejected  = "rejected"
	RentalActive    = "active"
	RentalCompleted = "completed"
	RentalCancelled = "cancelled"
)

type PersonalInfo struct {
	FullName     string `bson:"fullName" json:"fullName"`
	Phone        string `bson:"phone" json:"phone"`
	Address      string `bson:"address" json:"address"`
	IDCardNumber string `bson:"idCardNumber" json:"idCardNumber"`
}

type IDCardImages struct {
	Front string `bson:"front" json:"front"`
	Back  string `bson:"back" json:"back"`
}

type RentalRequest struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User         primitive.ObjectID `bson:"user" json:"user"`
	Product      primitive.ObjectID `bson:"product" json:"product"`
	PersonalInfo PersonalInfo       `bson:"personalInfo" json:"personalInfo"`
	IDCardImages IDCardImages       `bson:"idCardImages" json:"idCardImages"`

	StartDate  time.Time `bson:"requestedStartDate" json:"requestedStartDate"`
	EndDate    time.Time `bson:"requestedEndDate" json:"requestedEndDate"`
	RentalDays int       `bson:"rentalDays" json:"rentalDays"`
	DailyRate  float64   `bson:"dailyRate" json:"dailyRate"`
	TotalPrice float64   `bson:"totalPrice" json:"totalPrice"`
	Deposit    float64   `bson:"depositAmount" json:"depositAmount"`

	Status     string              `bson:"status" json:"status"`
	AdminNotes string              `bson:"adminNotes,omitempty" json:"adminNotes,omitempty"`
	ApprovedBy *primitive.ObjectID `bson:"approvedBy,omitempty" json:"approvedBy,omitempty"`
	ApprovedAt *time.Time          `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`
	RejectedAt *time.Time          `bson:"rejectedAt,omitempty" json:"rejectedAt,omitempty"`

	ActualStartDate *time.Time `bson:"actualStartDate,omitempty" json:"actualStartDate,omitempty"`
	ActualEndDate   *time.Time `bson:"actualEndDate,omitempty" json:"actualEndDate,omitempty"`

	ReturnedAt      *time.Time `bson:"returnedAt,omitempty" json:"returnedAt,omitempty"`
	ReturnCondition string     `bson:"returnCondition,omitempty" json:"returnCondition,omitempty"`
	DepositReturned bool       `bson:"depositReturned" json:"depositReturned"`
	DepositRefund   float64    `bson:"depositReturnedAmount,omitempty" json:"depositReturnedAmount,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
