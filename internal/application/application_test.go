package application

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/shopeasy/shopeasy-engine/internal/infrastructure/memstore"
	"github.com/shopeasy/shopeasy-engine/pkg/helpers"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testJWT() *helpers.JWTManager {
	return helpers.NewJWTManager("test-access", "test-refresh", time.Hour, 24*time.Hour)
}

func newTestAccounts(t *testing.T, store *memstore.Store) *AccountService {
	t.Helper()
	return NewAccountService(store, testJWT(), nil, "", testLogger(), AccountConfig{})
}

func newTestCart(t *testing.T, store *memstore.Store) *CartService {
	t.Helper()
	cart, err := NewCartService(context.Background(), store, testLogger(), Pricing{})
	require.NoError(t, err)
	return cart
}

func newTestWishlist(t *testing.T, store *memstore.Store) *WishlistService {
	t.Helper()
	wl, err := NewWishlistService(context.Background(), store, testLogger())
	require.NoError(t, err)
	return wl
}

func validRegistration() RegisterInput {
	return RegisterInput{
		Name:            "Asha Verma",
		Email:           "asha@example.com",
		MobileNumber:    "9876543210",
		Address:         "12 Lake Road",
		Password:        "pass1234",
		ConfirmPassword: "pass1234",
	}
}
