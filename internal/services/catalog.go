package services

import (
	"context"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazario-backend/internal/apperr"
	"bazario-backend/internal/models"
	"bazario-backend/internal/query"
)

type ProductCatalogStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Insert(ctx context.Context, product *models.Product) error
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, opts query.Options) ([]models.Product, int64, error)
}

type CategoryCatalogStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	Insert(ctx context.Context, category *models.Category) error
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, opts query.Options) ([]models.Category, int64, error)
}

type SubCategoryCatalogStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.SubCategory, error)
	Insert(ctx context.Context, sub *models.SubCategory) error
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.SubCategory, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, opts query.Options) ([]models.SubCategory, int64, error)
}

type BrandCatalogStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Brand, error)
	Insert(ctx context.Context, brand *models.Brand) error
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Brand, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, opts query.Options) ([]models.Brand, int64, error)
}

// ListResult is the envelope every paginated list endpoint returns.
type ListResult[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int64 `json:"page"`
	Pages int64 `json:"pages"`
}

func newListResult[T any](items []T, total int64, opts query.Options) ListResult[T] {
	if items == nil {
		items = []T{}
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = query.DefaultLimit
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return ListResult[T]{Items: items, Total: total, Page: opts.Page, Pages: pages}
}

type CatalogService struct {
	products      ProductCatalogStore
	categories    CategoryCatalogStore
	subcategories SubCategoryCatalogStore
	brands        BrandCatalogStore
}

func NewCatalogService(products ProductCatalogStore, categories CategoryCatalogStore, subcategories SubCategoryCatalogStore, brands BrandCatalogStore) *CatalogService {
	return &CatalogService{products: products, categories: categories, subcategories: subcategories, brands: brands}
}

type ProductInput struct {
	Title              string  `json:"title" binding:"required"`
	Description        string  `json:"description" binding:"required"`
	Price              float64 `json:"price" binding:"required"`
	PriceAfterDiscount float64 `json:"priceAfterDiscount"`
	Stock              int     `json:"stock"`
	Category           string  `json:"category"`
	Brand              string  `json:"brand"`
	Rentable           bool    `json:"isRentable"`
	RentalPricePerDay  float64 `json:"rentalPricePerDay"`
	RentalDeposit      float64 `json:"rentalDeposit"`
	RentalStock        int     `json:"rentalStock"`
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if in.Price < 0 || in.Stock < 0 {
		return nil, apperr.BadRequest("price and stock cannot be negative")
	}

	product := &models.Product{
		Title:              in.Title,
		Slug:               Slugify(in.Title),
		Description:        in.Description,
		Price:              in.Price,
		PriceAfterDiscount: in.PriceAfterDiscount,
		Stock:              in.Stock,
		Rentable:           in.Rentable,
		RentalPricePerDay:  in.RentalPricePerDay,
		RentalDeposit:      in.RentalDeposit,
		RentalStock:        in.RentalStock,
		AvailableForRental: in.Rentable,
	}

	if in.Category != "" {
		id, err := primitive.ObjectIDFromHex(in.Category)
		if err != nil {
			return nil, apperr.BadRequest("invalid category id")
		}
		if category, err := s.categories.GetByID(ctx, id); err != nil {
			return nil, err
		} else if category == nil {
			return nil, apperr.NotFound("category not found")
		}
		product.Category = id
	}
	if in.Brand != "" {
		id, err := primitive.ObjectIDFromHex(in.Brand)
		if err != nil {
			return nil, apperr.BadRequest("invalid brand id")
		}
		if brand, err := s.brands.GetByID(ctx, id); err != nil {
			return nil, err
		} else if brand == nil {
			return nil, apperr.NotFound("brand not found")
		}
		product.Brand = id
	}

	if err := s.products.Insert(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

type ProductUpdate struct {
	Title              *string  `json:"title"`
	Description        *string  `json:"description"`
	Price              *float64 `json:"price"`
	PriceAfterDiscount *float64 `json:"priceAfterDiscount"`
	Stock              *int     `json:"stock"`
	Rentable           *bool    `json:"isRentable"`
	RentalPricePerDay  *float64 `json:"rentalPricePerDay"`
	RentalDeposit      *float64 `json:"rentalDeposit"`
	RentalStock        *int     `json:"rentalStock"`
	AvailableForRental *bool    `json:"availableForRental"`
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id primitive.ObjectID, in ProductUpdate) (*models.Product, error) {
	fields := bson.M{}
	if in.Title != nil {
		fields["title"] = *in.Title
		fields["slug"] = Slugify(*in.Title)
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, apperr.BadRequest("price cannot be negative")
		}
		fields["price"] = *in.Price
	}
	if in.PriceAfterDiscount != nil {
		fields["priceAfterDiscount"] = *in.PriceAfterDiscount
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, apperr.BadRequest("stock cannot be negative")
		}
		fields["stock"] = *in.Stock
	}
	if in.Rentable != nil {
		fields["isRentable"] = *in.Rentable
	}
	if in.RentalPricePerDay != nil {
		fields["rentalPricePerDay"] = *in.RentalPricePerDay
	}
	if in.RentalDeposit != nil {
		fields["rentalDeposit"] = *in.RentalDeposit
	}
	if in.RentalStock != nil {
		fields["rentalStock"] = *in.RentalStock
	}
	if in.AvailableForRental != nil {
		fields["availableForRental"] = *in.AvailableForRental
	}
	if len(fields) == 0 {
		return nil, apperr.BadRequest("no fields to update")
	}

	product, err := s.products.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("product not found")
	}
	return product, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("product not found")
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	return s.products.Delete(ctx, id)
}

func (s *CatalogService) ListProducts(ctx context.Context, opts query.Options) (ListResult[models.Product], error) {
	products, total, err := s.products.List(ctx, opts)
	if err != nil {
		return ListResult[models.Product]{}, err
	}
	return newListResult(products, total, opts), nil
}

// SetProductImage stores the hosted image URL as the product cover.
func (s *CatalogService) SetProductImage(ctx context.Context, id primitive.ObjectID, url string) (*models.Product, error) {
	product, err := s.products.UpdateFields(ctx, id, bson.M{"imageCover": url})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("product not found")
	}
	return product, nil
}

type NameInput struct {
	Name  string `json:"name" binding:"required"`
	Image string `json:"image"`
}

func (s *CatalogService) CreateCategory(ctx context.Context, in NameInput) (*models.Category, error) {
	category := &models.Category{Name: in.Name, Slug: Slugify(in.Name), Image: in.Image}
	if err := s.categories.Insert(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.NotFound("category not found")
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id primitive.ObjectID, in NameInput) (*models.Category, error) {
	fields := bson.M{"name": in.Name, "slug": Slugify(in.Name)}
	if in.Image != "" {
		fields["image"] = in.Image
	}
	category, err := s.categories.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.NotFound("category not found")
	}
	return category, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	return s.categories.Delete(ctx, id)
}

func (s *CatalogService) ListCategories(ctx context.Context, opts query.Options) (ListResult[models.Category], error) {
	categories, total, err := s.categories.List(ctx, opts)
	if err != nil {
		return ListResult[models.Category]{}, err
	}
	return newListResult(categories, total, opts), nil
}

type SubCategoryInput struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category"`
}

func (s *CatalogService) CreateSubCategory(ctx context.Context, in SubCategoryInput) (*models.SubCategory, error) {
	if in.Category == "" {
		return nil, apperr.BadRequest("category is required")
	}
	categoryID, err := primitive.ObjectIDFromHex(in.Category)
	if err != nil {
		return nil, apperr.BadRequest("invalid category id")
	}
	if category, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, err
	} else if category == nil {
		return nil, apperr.NotFound("category not found")
	}

	sub := &models.SubCategory{Name: in.Name, Slug: Slugify(in.Name), Category: categoryID}
	if err := s.subcategories.Insert(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *CatalogService) GetSubCategory(ctx context.Context, id primitive.ObjectID) (*models.SubCategory, error) {
	sub, err := s.subcategories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperr.NotFound("subcategory not found")
	}
	return sub, nil
}

func (s *CatalogService) UpdateSubCategory(ctx context.Context, id primitive.ObjectID, in SubCategoryInput) (*models.SubCategory, error) {
	fields := bson.M{"name": in.Name, "slug": Slugify(in.Name)}
	if in.Category != "" {
		categoryID, err := primitive.ObjectIDFromHex(in.Category)
		if err != nil {
			return nil, apperr.BadRequest("invalid category id")
		}
		if category, err := s.categories.GetByID(ctx, categoryID); err != nil {
			return nil, err
		} else if category == nil {
			return nil, apperr.NotFound("category not found")
		}
		fields["category"] = categoryID
	}
	sub, err := s.subcategories.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperr.NotFound("subcategory not found")
	}
	return sub, nil
}

func (s *CatalogService) DeleteSubCategory(ctx context.Context, id primitive.ObjectID) error {
	return s.subcategories.Delete(ctx, id)
}

func (s *CatalogService) ListSubCategories(ctx context.Context, opts query.Options) (ListResult[models.SubCategory], error) {
	subs, total, err := s.subcategories.List(ctx, opts)
	if err != nil {
		return ListResult[models.SubCategory]{}, err
	}
	return newListResult(subs, total, opts), nil
}

// ListSubCategoriesByCategory lists a single category's subcategories,
// overriding whatever category filter came in on the query string.
func (s *CatalogService) ListSubCategoriesByCategory(ctx context.Context, categoryID primitive.ObjectID, opts query.Options) (ListResult[models.SubCategory], error) {
	if opts.Filter == nil {
		opts.Filter = bson.M{}
	}
	opts.Filter["category"] = categoryID
	return s.ListSubCategories(ctx, opts)
}

func (s *CatalogService) CreateBrand(ctx context.Context, in NameInput) (*models.Brand, error) {
	brand := &models.Brand{Name: in.Name, Slug: Slugify(in.Name), Logo: in.Image}
	if err := s.brands.Insert(ctx, brand); err != nil {
		return nil, err
	}
	return brand, nil
}

func (s *CatalogService) GetBrand(ctx context.Context, id primitive.ObjectID) (*models.Brand, error) {
	brand, err := s.brands.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if brand == nil {
		return nil, apperr.NotFound("brand not found")
	}
	return brand, nil
}

func (s *CatalogService) UpdateBrand(ctx context.Context, id primitive.ObjectID, in NameInput) (*models.Brand, error) {
	fields := bson.M{"name": in.Name, "slug": Slugify(in.Name)}
	if in.Image != "" {
		fields["logo"] = in.Image
	}
	brand, err := s.brands.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if brand == nil {
		return nil, apperr.NotFound("brand not found")
	}
	return brand, nil
}

func (s *CatalogService) DeleteBrand(ctx context.Context, id primitive.ObjectID) error {
	return s.brands.Delete(ctx, id)
}

func (s *CatalogService) ListBrands(ctx context.Context, opts query.Options) (ListResult[models.Brand], error) {
	brands, total, err := s.brands.List(ctx, opts)
	if err != nil {
		return ListResult[models.Brand]{}, err
	}
	return newListResult(brands, total, opts), nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

func Slugify(name string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
