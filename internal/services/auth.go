package services

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"bazario-backend/internal/apperr"
	"bazario-backend/internal/models"
)

const bcryptCost = 12

type AuthUserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string, changedAt time.Time) error
}

type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

type AuthService struct {
	users  AuthUserStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(users AuthUserStore, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{users: users, secret: secret, ttl: ttl, now: time.Now}
}

type SignupInput struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone"`
	Password   string `json:"password" binding:"required"`
	RePassword string `json:"rePassword" binding:"required"`
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, string, error) {
	if in.Password != in.RePassword {
		return nil, "", apperr.BadRequest("passwords do not match")
	}
	if len(in.Password) < 6 {
		return nil, "", apperr.BadRequest("password must be at least 6 characters")
	}

	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", apperr.BadRequest("email already in use")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: string(hash),
		Role:     models.RoleUser,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", apperr.Unauthorized("invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, "", apperr.Unauthorized("invalid email or password")
	}
	if user.Blocked {
		return nil, "", apperr.Forbidden("account is blocked")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ChangePassword rotates the credential and records the change time, which
// invalidates every token issued before it.
func (s *AuthService) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", apperr.Unauthorized("incorrect email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return nil, "", apperr.Unauthorized("incorrect email or password")
	}
	if len(newPassword) < 6 {
		return nil, "", apperr.BadRequest("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return nil, "", err
	}

	changedAt := s.now()
	if err := s.users.SetPassword(ctx, user.ID, string(hash), changedAt); err != nil {
		return nil, "", err
	}
	user.Password = string(hash)
	user.PasswordChangedAt = changedAt

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate resolves a token to a live user. Tokens minted before the
// user's last password change are refused. Expiry is checked against the
// service clock, not the library's, so it follows the injected now.
func (s *AuthService) Authenticate(ctx context.Context, tokenStr string) (*models.User, error) {
	parser := jwt.Parser{SkipClaimsValidation: true}
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.Unauthorized("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Unauthorized("invalid or expired token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, apperr.Unauthorized("invalid or expired token")
	}
	now := s.now().Unix()
	if claims.ExpiresAt < now || claims.IssuedAt > now {
		return nil, apperr.Unauthorized("invalid or expired token")
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("invalid or expired token")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Unauthorized("user no longer exists")
	}
	if user.Blocked {
		return nil, apperr.Forbidden("account is blocked")
	}
	if !user.PasswordChangedAt.IsZero() && user.PasswordChangedAt.Unix() > claims.IssuedAt {
		return nil, apperr.Unauthorized("password changed recently, please login again")
	}
	return user, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.ttl).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// TokenTTL is exposed so the handler can set a matching cookie lifetime.
func (s *AuthService) TokenTTL() time.Duration {
	return s.ttl
}
