package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazario-backend/internal/apperr"
	"bazario-backend/internal/models"
	"bazario-backend/internal/query"
)

type UserAdminStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error)
	AddToWishlist(ctx context.Context, id, productID primitive.ObjectID) error
	RemoveFromWishlist(ctx context.Context, id, productID primitive.ObjectID) error
	AddAddress(ctx context.Context, id primitive.ObjectID, addr models.Address) error
	RemoveAddress(ctx context.Context, id primitive.ObjectID, alias string) error
	SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, opts query.Options) ([]models.User, int64, error)
}

type UsersService struct {
	users    UserAdminStore
	products ProductGetter
}

func NewUsersService(users UserAdminStore, products ProductGetter) *UsersService {
	return &UsersService{users: users, products: products}
}

func (s *UsersService) Profile(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

func (s *UsersService) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, phone string) (*models.User, error) {
	fields := bson.M{}
	if name != "" {
		fields["name"] = name
	}
	if phone != "" {
		fields["phone"] = phone
	}
	if len(fields) == 0 {
		return nil, apperr.BadRequest("no fields to update")
	}

	user, err := s.users.UpdateProfile(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

// WishlistItem pairs the stored reference with product display fields.
type WishlistItem struct {
	ID         primitive.ObjectID `json:"id"`
	Title      string             `json:"title"`
	ImageCover string             `json:"imageCover,omitempty"`
	Price      float64            `json:"price"`
	Stock      int                `json:"stock"`
}

func (s *UsersService) Wishlist(ctx context.Context, id primitive.ObjectID) ([]WishlistItem, error) {
	user, err := s.Profile(ctx, id)
	if err != nil {
		return nil, err
	}

	items := make([]WishlistItem, 0, len(user.Wishlist))
	for _, pid := range user.Wishlist {
		product, err := s.products.GetByID(ctx, pid)
		if err != nil {
			return nil, err
		}
		if product == nil {
			// product was removed from the catalog; skip the dangling ref
			continue
		}
		items = append(items, WishlistItem{
			ID:         product.ID,
			Title:      product.Title,
			ImageCover: product.ImageCover,
			Price:      product.Price,
			Stock:      product.Stock,
		})
	}
	return items, nil
}

func (s *UsersService) AddToWishlist(ctx context.Context, id, productID primitive.ObjectID) error {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return apperr.NotFound("product not found")
	}
	return s.users.AddToWishlist(ctx, id, productID)
}

func (s *UsersService) RemoveFromWishlist(ctx context.Context, id, productID primitive.ObjectID) error {
	return s.users.RemoveFromWishlist(ctx, id, productID)
}

func (s *UsersService) AddAddress(ctx context.Context, id primitive.ObjectID, addr models.Address) error {
	if addr.City == "" || addr.Street == "" || addr.Phone == "" {
		return apperr.BadRequest("city, street and phone are required")
	}
	return s.users.AddAddress(ctx, id, addr)
}

func (s *UsersService) RemoveAddress(ctx context.Context, id primitive.ObjectID, alias string) error {
	if alias == "" {
		return apperr.BadRequest("address alias is required")
	}
	return s.users.RemoveAddress(ctx, id, alias)
}

func (s *UsersService) List(ctx context.Context, opts query.Options) (ListResult[models.User], error) {
	users, total, err := s.users.List(ctx, opts)
	if err != nil {
		return ListResult[models.User]{}, err
	}
	return newListResult(users, total, opts), nil
}

func (s *UsersService) SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("user not found")
	}
	return s.users.SetBlocked(ctx, id, blocked)
}

func (s *UsersService) Delete(ctx context.Context, id primitive.ObjectID) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("user not found")
	}
	return s.users.Delete(ctx, id)
}
