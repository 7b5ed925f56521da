package services

import (
	"context"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazario-backend/internal/apperr"
	"bazario-backend/internal/models"
	"bazario-backend/internal/query"
)

type RentalRequestStore interface {
	Insert(ctx context.Context, req *models.RentalRequest) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.RentalRequest, error)
	Transition(ctx context.Context, id primitive.ObjectID, fromStatus string, fields bson.M) (*models.RentalRequest, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, opts query.Options) ([]models.RentalRequest, int64, error)
	List(ctx context.Context, opts query.Options) ([]models.RentalRequest, int64, error)
}

type RentalStockAdjuster interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	DecrementRentalStock(ctx context.Context, id primitive.ObjectID) error
	IncrementRentalStock(ctx context.Context, id primitive.ObjectID) error
}

var returnConditions = map[string]bool{
	"excellent": true,
	"good":      true,
	"fair":      true,
	"poor":      true,
	"damaged":   true,
}

type RentalService struct {
	rentals  RentalRequestStore
	products RentalStockAdjuster
	now      func() time.Time
}

func NewRentalService(rentals RentalRequestStore, products RentalStockAdjuster) *RentalService {
	return &RentalService{rentals: rentals, products: products, now: time.Now}
}

type CreateRentalInput struct {
	ProductID    primitive.ObjectID
	PersonalInfo models.PersonalInfo
	StartDate    time.Time
	EndDate      time.Time
	IDCardFront  string
	IDCardBack   string
}

// Create validates the rental window and prices it: ceil of the spanned
// 24-hour periods times the product's daily rate, deposit copied as-is.
func (s *RentalService) Create(ctx context.Context, userID primitive.ObjectID, in CreateRentalInput) (*models.RentalRequest, error) {
	pi := in.PersonalInfo
	if pi.FullName == "" || pi.Phone == "" || pi.Address == "" || pi.IDCardNumber == "" {
		return nil, apperr.BadRequest("personal information is incomplete")
	}
	if in.IDCardFront == "" || in.IDCardBack == "" {
		return nil, apperr.BadRequest("both sides of the ID card image are required")
	}

	product, err := s.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("product not found")
	}
	if !product.Rentable {
		return nil, apperr.BadRequest("this product is not available for rental")
	}
	if !product.AvailableForRental || product.RentalStock <= 0 {
		return nil, apperr.BadRequest("product is not currently available for rental")
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if in.StartDate.Before(today) {
		return nil, apperr.BadRequest("start date cannot be in the past")
	}
	if !in.EndDate.After(in.StartDate) {
		return nil, apperr.BadRequest("end date must be after start date")
	}

	days := int(math.Ceil(in.EndDate.Sub(in.StartDate).Hours() / 24))

	req := &models.RentalRequest{
		User:         userID,
		Product:      product.ID,
		PersonalInfo: pi,
		IDCardImages: models.IDCardImages{Front: in.IDCardFront, Back: in.IDCardBack},
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		RentalDays:   days,
		DailyRate:    product.RentalPricePerDay,
		TotalPrice:   round2(float64(days) * product.RentalPricePerDay),
		Deposit:      product.RentalDeposit,
		Status:       models.RentalPending,
	}
	if err := s.rentals.Insert(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *RentalService) Get(ctx context.Context, userID primitive.ObjectID, admin bool, id primitive.ObjectID) (*models.RentalRequest, error) {
	req, err := s.rentals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperr.NotFound("rental request not found")
	}
	if !admin && req.User != userID {
		return nil, apperr.Forbidden("not authorized to access this rental request")
	}
	return req, nil
}

func (s *RentalService) ListMine(ctx context.Context, userID primitive.ObjectID, opts query.Options) (ListResult[models.RentalRequest], error) {
	reqs, total, err := s.rentals.ListByUser(ctx, userID, opts)
	if err != nil {
		return ListResult[models.RentalRequest]{}, err
	}
	return newListResult(reqs, total, opts), nil
}

func (s *RentalService) ListAll(ctx context.Context, status string, opts query.Options) (ListResult[models.RentalRequest], error) {
	if status != "" && status != "all" {
		opts.Filter["status"] = status
	}
	reqs, total, err := s.rentals.List(ctx, opts)
	if err != nil {
		return ListResult[models.RentalRequest]{}, err
	}
	return newListResult(reqs, total, opts), nil
}

// Approve reserves a rental unit and moves the request to approved. The
// stock is taken first; a lost status race puts it back.
func (s *RentalService) Approve(ctx context.Context, adminID, id primitive.ObjectID, notes string) (*models.RentalRequest, error) {
	req, err := s.rentals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperr.NotFound("rental request not found")
	}

	if err := s.products.DecrementRentalStock(ctx, req.Product); err != nil {
		return nil, err
	}

	at := s.now()
	updated, err := s.rentals.Transition(ctx, id, models.RentalPending, bson.M{
		"status":     models.RentalApproved,
		"approvedBy": adminID,
		"approvedAt": at,
		"adminNotes": notes,
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		_ = s.products.IncrementRentalStock(ctx, req.Product)
		return nil, apperr.BadRequest("rental request is not pending")
	}
	return updated, nil
}

func (s *RentalService) Reject(ctx context.Context, id primitive.ObjectID, notes string) (*models.RentalRequest, error) {
	updated, err := s.rentals.Transition(ctx, id, models.RentalPending, bson.M{
		"status":     models.RentalRejected,
		"rejectedAt": s.now(),
		"adminNotes": notes,
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperr.BadRequest("rental request is not pending")
	}
	return updated, nil
}

func (s *RentalService) Cancel(ctx context.Context, userID, id primitive.ObjectID) (*models.RentalRequest, error) {
	req, err := s.rentals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperr.NotFound("rental request not found")
	}
	if req.User != userID {
		return nil, apperr.Forbidden("not authorized to cancel this rental request")
	}

	updated, err := s.rentals.Transition(ctx, id, models.RentalPending, bson.M{
		"status": models.RentalCancelled,
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperr.BadRequest("only pending requests can be cancelled")
	}
	return updated, nil
}

func (s *RentalService) Activate(ctx context.Context, id primitive.ObjectID) (*models.RentalRequest, error) {
	updated, err := s.rentals.Transition(ctx, id, models.RentalApproved, bson.M{
		"status":          models.RentalActive,
		"actualStartDate": s.now(),
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperr.BadRequest("rental request is not approved")
	}
	return updated, nil
}

type CompleteRentalInput struct {
	ReturnCondition string  `json:"returnCondition" binding:"required"`
	DepositRefund   float64 `json:"depositRefund"`
}

// Complete closes out an active rental: records the return, restores the
// rental unit and books the deposit refund.
func (s *RentalService) Complete(ctx context.Context, id primitive.ObjectID, in CompleteRentalInput) (*models.RentalRequest, error) {
	if !returnConditions[in.ReturnCondition] {
		return nil, apperr.BadRequest("invalid return condition")
	}
	if in.DepositRefund < 0 {
		return nil, apperr.BadRequest("deposit refund cannot be negative")
	}

	at := s.now()
	updated, err := s.rentals.Transition(ctx, id, models.RentalActive, bson.M{
		"status":                models.RentalCompleted,
		"returnedAt":            at,
		"actualEndDate":         at,
		"returnCondition":       in.ReturnCondition,
		"depositReturned":       true,
		"depositReturnedAmount": in.DepositRefund,
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperr.BadRequest("rental request is not active")
	}

	if err := s.products.IncrementRentalStock(ctx, updated.Product); err != nil {
		return nil, err
	}
	return updated, nil
}
