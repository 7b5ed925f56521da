package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazario-backend/internal/models"
)

func newUsersFixture(t *testing.T, products ...*models.Product) (*UsersService, *fakeUserStore, *models.User) {
	t.Helper()
	users := newFakeUserStore()
	user := &models.User{Name: "Lina", Email: "lina@example.com", Role: models.RoleUser}
	require.NoError(t, users.Insert(context.Background(), user))
	return NewUsersService(users, newFakeProductStore(products...)), users, user
}

func TestUpdateProfile(t *testing.T) {
	svc, _, user := newUsersFixture(t)
	ctx := context.Background()

	updated, err := svc.UpdateProfile(ctx, user.ID, "Lina M", "0109")
	require.NoError(t, err)
	assert.Equal(t, "Lina M", updated.Name)
	assert.Equal(t, "0109", updated.Phone)

	_, err = svc.UpdateProfile(ctx, user.ID, "", "")
	require.EqualError(t, err, "no fields to update")

	_, err = svc.UpdateProfile(ctx, primitive.NewObjectID(), "Ghost", "")
	require.EqualError(t, err, "user not found")
}

func TestWishlist(t *testing.T) {
	p1 := &models.Product{Title: "Book", Price: 12, Stock: 7}
	p2 := &models.Product{Title: "Pen", Price: 2, Stock: 30}
	svc, users, user := newUsersFixture(t, p1, p2)
	ctx := context.Background()

	require.NoError(t, svc.AddToWishlist(ctx, user.ID, p1.ID))
	require.NoError(t, svc.AddToWishlist(ctx, user.ID, p2.ID))
	// adding twice must not duplicate
	require.NoError(t, svc.AddToWishlist(ctx, user.ID, p1.ID))

	err := svc.AddToWishlist(ctx, user.ID, primitive.NewObjectID())
	require.EqualError(t, err, "product not found")

	items, err := svc.Wishlist(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Book", items[0].Title)
	assert.Equal(t, 12.0, items[0].Price)

	// A product deleted from the catalog silently drops out of the view.
	users.users[user.ID].Wishlist = append(users.users[user.ID].Wishlist, primitive.NewObjectID())
	items, err = svc.Wishlist(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	require.NoError(t, svc.RemoveFromWishlist(ctx, user.ID, p1.ID))
	items, err = svc.Wishlist(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Pen", items[0].Title)
}

func TestAddresses(t *testing.T) {
	svc, users, user := newUsersFixture(t)
	ctx := context.Background()

	err := svc.AddAddress(ctx, user.ID, models.Address{Alias: "home", City: "Cairo"})
	require.EqualError(t, err, "city, street and phone are required")

	addr := models.Address{Alias: "home", City: "Cairo", Street: "5 Nile St", Phone: "0100"}
	require.NoError(t, svc.AddAddress(ctx, user.ID, addr))
	assert.Equal(t, []models.Address{addr}, users.users[user.ID].Addresses)

	err = svc.RemoveAddress(ctx, user.ID, "")
	require.EqualError(t, err, "address alias is required")

	require.NoError(t, svc.RemoveAddress(ctx, user.ID, "home"))
	assert.Empty(t, users.users[user.ID].Addresses)
}

func TestBlockAndDeleteUser(t *testing.T) {
	svc, users, user := newUsersFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.SetBlocked(ctx, user.ID, true))
	assert.True(t, users.users[user.ID].Blocked)

	err := svc.SetBlocked(ctx, primitive.NewObjectID(), true)
	require.EqualError(t, err, "user not found")

	require.NoError(t, svc.Delete(ctx, user.ID))
	err = svc.Delete(ctx, user.ID)
	require.EqualError(t, err, "user not found")
}
