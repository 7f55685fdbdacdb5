package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopeasy/shopeasy-engine/internal/domain/apperr"
	"github.com/shopeasy/shopeasy-engine/internal/domain/entity"
	"github.com/shopeasy/shopeasy-engine/internal/domain/repository"
	"github.com/shopeasy/shopeasy-engine/internal/infrastructure/memstore"
)

func TestRegisterValidationOrder(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*RegisterInput)
		message string
	}{
		{
			name:    "short name",
			mutate:  func(in *RegisterInput) { in.Name = "Al" },
			message: "Name must be at least 3 characters long",
		},
		{
			name:    "bad email",
			mutate:  func(in *RegisterInput) { in.Email = "not-an-email" },
			message: "Please enter a valid email address",
		},
		{
			name:    "short mobile",
			mutate:  func(in *RegisterInput) { in.MobileNumber = "12345" },
			message: "Please enter a valid 10-digit mobile number",
		},
		{
			name:    "mobile with letters",
			mutate:  func(in *RegisterInput) { in.MobileNumber = "987654321x" },
			message: "Please enter a valid 10-digit mobile number",
		},
		{
			name:    "short password",
			mutate:  func(in *RegisterInput) { in.Password, in.ConfirmPassword = "abc", "abc" },
			message: "Password must be at least 4 characters long",
		},
		{
			name:    "password mismatch",
			mutate:  func(in *RegisterInput) { in.ConfirmPassword = "different" },
			message: "Passwords do not match",
		},
		{
			// name is checked before email, so the name message wins
			name: "name checked first",
			mutate: func(in *RegisterInput) {
				in.Name = "Al"
				in.Email = "broken"
			},
			message: "Name must be at least 3 characters long",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestAccounts(t, memstore.New())
			in := validRegistration()
			tc.mutate(&in)

			_, _, err := svc.Register(context.Background(), in)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Equal(t, tc.message, err.Error())
		})
	}
}

func TestRegisterConflicts(t *testing.T) {
	ctx := context.Background()
	svc := newTestAccounts(t, memstore.New())

	_, _, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	// same mobile, different email
	dup := validRegistration()
	dup.Email = "other@example.com"
	_, _, err = svc.Register(ctx, dup)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, "Mobile number already registered. Please use a different number or login.", err.Error())

	// same email, different mobile
	dup = validRegistration()
	dup.MobileNumber = "9876543211"
	_, _, err = svc.Register(ctx, dup)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, "Email already registered. Please use a different email.", err.Error())

	// both taken reports the mobile conflict
	_, _, err = svc.Register(ctx, validRegistration())
	require.Error(t, err)
	assert.Equal(t, "Mobile number already registered. Please use a different number or login.", err.Error())
}

func TestRegisterEstablishesSession(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	svc := newTestAccounts(t, store)

	user, pair, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "pass1234", user.Password, "password must not be stored in plain text")

	sess, ok, err := svc.CurrentSession(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, user.ID, sess.CurrentUser.ID)
	assert.Equal(t, pair.AccessToken, sess.AuthToken)

	claims, err := testJWT().ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestAccounts(t, memstore.New())
	reg := validRegistration()
	_, _, err := svc.Register(ctx, reg)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx))

	t.Run("unknown mobile", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "9999999999", reg.Password)
		require.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
		assert.Equal(t, "Mobile number not registered. Please register first.", err.Error())
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, reg.MobileNumber, "wrongpass")
		require.Error(t, err)
		assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
		assert.Equal(t, "Invalid password. Please try again.", err.Error())
	})

	t.Run("success", func(t *testing.T) {
		user, pair, err := svc.Login(ctx, reg.MobileNumber, reg.Password)
		require.NoError(t, err)
		assert.Equal(t, reg.MobileNumber, user.MobileNumber)
		require.NotNil(t, pair)

		sess, ok, err := svc.CurrentSession(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, pair.AccessToken, sess.AuthToken)
	})
}

func TestLoginSupersedesPreviousSession(t *testing.T) {
	ctx := context.Background()
	svc := newTestAccounts(t, memstore.New())
	reg := validRegistration()
	_, first, err := svc.Register(ctx, reg)
	require.NoError(t, err)

	_, second, err := svc.Login(ctx, reg.MobileNumber, reg.Password)
	require.NoError(t, err)

	sess, ok, err := svc.CurrentSession(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second.AccessToken, sess.AuthToken)
	assert.NotEqual(t, first.AccessToken, sess.AuthToken)
}

func TestLogoutPreservesUsersAndResetsScopedState(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	svc := newTestAccounts(t, store)
	cart := newTestCart(t, store)
	wishlist := newTestWishlist(t, store)
	svc.AttachSessionScoped(cart, wishlist)

	_, _, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	_, err = cart.AddItem(ctx, "1", "Wireless Bluetooth Headphones", 1999)
	require.NoError(t, err)
	_, err = wishlist.Toggle(ctx, "2")
	require.NoError(t, err)

	loggedIn, err := svc.IsLoggedIn(ctx)
	require.NoError(t, err)
	require.True(t, loggedIn)

	require.NoError(t, svc.Logout(ctx))

	loggedIn, err = svc.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.False(t, loggedIn)
	assert.True(t, store.Has(repository.KeyRegisteredUsers), "accounts survive logout")
	assert.False(t, store.Has(repository.KeyCurrentSession))
	assert.False(t, store.Has(repository.KeyCart))
	assert.False(t, store.Has(repository.KeyWishlist))
	assert.Empty(t, cart.Items())

	_, ok, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	svc := newTestAccounts(t, memstore.New())
	reg := validRegistration()
	user, pair, err := svc.Register(ctx, reg)
	require.NoError(t, err)

	refreshed, next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshed.ID)

	sess, ok, err := svc.CurrentSession(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, next.AccessToken, sess.AuthToken)

	t.Run("garbage token", func(t *testing.T) {
		_, _, err := svc.Refresh(ctx, "not-a-token")
		require.Error(t, err)
		assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
	})

	t.Run("no session", func(t *testing.T) {
		require.NoError(t, svc.Logout(ctx))
		_, _, err := svc.Refresh(ctx, next.RefreshToken)
		require.Error(t, err)
		assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
	})
}

func TestForgotPassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestAccounts(t, memstore.New())
	reg := validRegistration()
	_, _, err := svc.Register(ctx, reg)
	require.NoError(t, err)

	t.Run("pair must match one account", func(t *testing.T) {
		_, _, err := svc.ForgotPassword(ctx, reg.MobileNumber, "someone-else@example.com")
		require.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
		assert.Equal(t, "No account found with this mobile number and email combination.", err.Error())
	})

	t.Run("issues a four digit challenge", func(t *testing.T) {
		reset, user, err := svc.ForgotPassword(ctx, reg.MobileNumber, reg.Email)
		require.NoError(t, err)
		assert.Len(t, reset.OTP, 4)
		assert.Equal(t, reg.MobileNumber, reset.TargetMobile)
		assert.Equal(t, reg.Email, user.Email)
		assert.True(t, reset.ExpiresAt.After(time.Now()))
	})

	t.Run("new request replaces the previous challenge", func(t *testing.T) {
		first, _, err := svc.ForgotPassword(ctx, reg.MobileNumber, reg.Email)
		require.NoError(t, err)
		_, _, err = svc.ForgotPassword(ctx, reg.MobileNumber, reg.Email)
		require.NoError(t, err)

		err = svc.ResetPassword(ctx, first.OTP, "newpass", "newpass")
		// the old code only works if the regenerated one happens to collide
		if err != nil {
			assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
		}
	})
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestAccounts(t, memstore.New())
	reg := validRegistration()
	_, _, err := svc.Register(ctx, reg)
	require.NoError(t, err)

	t.Run("without challenge", func(t *testing.T) {
		err := svc.ResetPassword(ctx, "1234", "newpass", "newpass")
		require.Error(t, err)
		assert.Equal(t, apperr.KindState, apperr.KindOf(err))
		assert.Equal(t, "OTP session expired. Please request a new OTP.", err.Error())
	})

	reset, _, err := svc.ForgotPassword(ctx, reg.MobileNumber, reg.Email)
	require.NoError(t, err)

	t.Run("wrong otp", func(t *testing.T) {
		wrong := "0000"
		if wrong == reset.OTP {
			wrong = "0001"
		}
		err := svc.ResetPassword(ctx, wrong, "newpass", "newpass")
		require.Error(t, err)
		assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
		assert.Equal(t, "Invalid OTP. Please check and try again.", err.Error())
	})

	t.Run("success consumes the challenge", func(t *testing.T) {
		require.NoError(t, svc.ResetPassword(ctx, reset.OTP, "newpass", "newpass"))

		_, _, err := svc.Login(ctx, reg.MobileNumber, reg.Password)
		require.Error(t, err, "old password must stop working")
		_, _, err = svc.Login(ctx, reg.MobileNumber, "newpass")
		require.NoError(t, err)

		// the slot is single-use
		err = svc.ResetPassword(ctx, reset.OTP, "again123", "again123")
		require.Error(t, err)
		assert.Equal(t, apperr.KindState, apperr.KindOf(err))
	})
}

func TestResetPasswordExpiry(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	svc := newTestAccounts(t, store)
	reg := validRegistration()
	_, _, err := svc.Register(ctx, reg)
	require.NoError(t, err)

	base := time.Now()
	svc.now = func() time.Time { return base }
	reset, _, err := svc.ForgotPassword(ctx, reg.MobileNumber, reg.Email)
	require.NoError(t, err)

	svc.now = func() time.Time { return base.Add(11 * time.Minute) }
	err = svc.ResetPassword(ctx, reset.OTP, "newpass", "newpass")
	require.Error(t, err)
	assert.Equal(t, apperr.KindExpired, apperr.KindOf(err))
	assert.Equal(t, "OTP has expired. Please request a new OTP.", err.Error())
	assert.False(t, store.Has(repository.KeyPasswordReset), "expired challenge is deleted")

	// with the slot gone the failure mode changes
	err = svc.ResetPassword(ctx, reset.OTP, "newpass", "newpass")
	require.Error(t, err)
	assert.Equal(t, apperr.KindState, apperr.KindOf(err))
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc := newTestAccounts(t, memstore.New())

	t.Run("requires a session", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, ProfilePatch{Name: "New Name"})
		require.Error(t, err)
		assert.Equal(t, apperr.KindState, apperr.KindOf(err))
	})

	reg := validRegistration()
	_, _, err := svc.Register(ctx, reg)
	require.NoError(t, err)

	t.Run("merges non-empty fields", func(t *testing.T) {
		updated, err := svc.UpdateProfile(ctx, ProfilePatch{Name: "Asha V.", Address: "44 Hill Street"})
		require.NoError(t, err)
		assert.Equal(t, "Asha V.", updated.Name)
		assert.Equal(t, "44 Hill Street", updated.Address)
		assert.Equal(t, reg.Email, updated.Email, "untouched fields keep their values")
		require.NotNil(t, updated.UpdatedAt)

		// the session mirror is refreshed too
		user, ok, err := svc.CurrentUser(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Asha V.", user.Name)
	})

	t.Run("rejects a malformed mobile patch", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, ProfilePatch{MobileNumber: "12345"})
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		assert.Equal(t, "Please enter a valid 10-digit mobile number", err.Error())

		// the stored identifier is untouched, so login still works
		user, ok, err := svc.CurrentUser(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, reg.MobileNumber, user.MobileNumber)
	})

	t.Run("rejects a malformed email patch", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, ProfilePatch{Email: "not-an-email"})
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		assert.Equal(t, "Please enter a valid email address", err.Error())
	})

	t.Run("rejects identifiers taken by another account", func(t *testing.T) {
		other := validRegistration()
		other.Email = "ravi@example.com"
		other.MobileNumber = "9123456789"
		_, _, err := svc.Register(ctx, other)
		require.NoError(t, err)

		// the second registration is now the session user
		_, err = svc.UpdateProfile(ctx, ProfilePatch{MobileNumber: reg.MobileNumber})
		require.Error(t, err)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

		_, err = svc.UpdateProfile(ctx, ProfilePatch{Email: reg.Email})
		require.Error(t, err)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

		// re-submitting your own identifiers is not a conflict
		updated, err := svc.UpdateProfile(ctx, ProfilePatch{MobileNumber: other.MobileNumber})
		require.NoError(t, err)
		assert.Equal(t, other.MobileNumber, updated.MobileNumber)
	})

	t.Run("a valid identifier patch carries over to login", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, ProfilePatch{MobileNumber: "9000000001"})
		require.NoError(t, err)
		require.NoError(t, svc.Logout(ctx))
		_, _, err = svc.Login(ctx, "9000000001", "pass1234")
		require.NoError(t, err)
	})
}

func TestIsRegisteredLookups(t *testing.T) {
	ctx := context.Background()
	svc := newTestAccounts(t, memstore.New())
	reg := validRegistration()
	_, _, err := svc.Register(ctx, reg)
	require.NoError(t, err)

	ok, err := svc.IsMobileRegistered(ctx, reg.MobileNumber)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.IsMobileRegistered(ctx, "1111111111")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.IsEmailRegistered(ctx, reg.Email)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.IsEmailRegistered(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserStats(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	svc := newTestAccounts(t, store)
	reg := validRegistration()
	user, _, err := svc.Register(ctx, reg)
	require.NoError(t, err)

	orders := []entity.Order{
		{ID: "SHOP-AAAA1111", UserID: user.ID, TotalCost: 2048},
		{ID: "SHOP-BBBB2222", UserID: "someone-else", TotalCost: 999},
		{ID: "SHOP-CCCC3333", UserID: user.ID, TotalCost: 648},
	}
	require.NoError(t, store.Set(ctx, repository.KeyOrderHistory, orders))

	stats, err := svc.UserStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.InDelta(t, 2696, stats.TotalSpent, 0.001)
	assert.Equal(t, user.RegisteredAt.Unix(), stats.MemberSince.Unix())
}
