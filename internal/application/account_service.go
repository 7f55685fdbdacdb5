package application

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shopeasy/shopeasy-engine/internal/domain/apperr"
	"github.com/shopeasy/shopeasy-engine/internal/domain/entity"
	"github.com/shopeasy/shopeasy-engine/internal/domain/repository"
	"github.com/shopeasy/shopeasy-engine/pkg/helpers"
	"github.com/shopeasy/shopeasy-engine/pkg/validation"
)

// SessionScoped is implemented by components whose persisted state lives only
// as long as the session (cart, wishlist). Logout resets them before it
// removes the session record.
type SessionScoped interface {
	Reset(ctx context.Context) error
}

// AccountConfig tunes the credential rules and the OTP window.
type AccountConfig struct {
	ResetTTL          time.Duration
	MinPasswordLength int
	MinNameLength     int
}

func (c *AccountConfig) setDefaults() {
	if c.ResetTTL <= 0 {
		c.ResetTTL = 10 * time.Minute
	}
	if c.MinPasswordLength <= 0 {
		c.MinPasswordLength = 4
	}
	if c.MinNameLength <= 0 {
		c.MinNameLength = 3
	}
}

// AccountService owns the registered-users collection, the single active
// session, and the password-reset slot. All mutations are serialized; each
// operation leaves prior persisted state unchanged when it fails.
type AccountService struct {
	mu        sync.Mutex
	store     repository.Store
	jwt       *helpers.JWTManager
	gcs       *storage.Client
	gcsBucket string
	logger    *logrus.Logger
	cfg       AccountConfig

	sessionScoped []SessionScoped

	// injectable for expiry tests
	now func() time.Time
}

func NewAccountService(store repository.Store, jwt *helpers.JWTManager, gcs *storage.Client, gcsBucket string, logger *logrus.Logger, cfg AccountConfig) *AccountService {
	cfg.setDefaults()
	return &AccountService{
		store:     store,
		jwt:       jwt,
		gcs:       gcs,
		gcsBucket: gcsBucket,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// AttachSessionScoped registers components to be reset on logout.
func (s *AccountService) AttachSessionScoped(scoped ...SessionScoped) {
	s.sessionScoped = append(s.sessionScoped, scoped...)
}

type RegisterInput struct {
	Name            string
	Email           string
	MobileNumber    string
	Address         string
	Password        string
	ConfirmPassword string
}

// TokenPair carries the session tokens for the cookie layer. The access token
// doubles as the session's auth_token; the refresh token only rotates it.
type TokenPair struct {
	AccessToken   string
	AccessExpiry  time.Time
	RefreshToken  string
	RefreshExpiry time.Time
}

// Register validates the input, enforces mobile/email uniqueness, persists
// the new user, and establishes a fresh session for them.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*entity.User, *TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(in.Name) < s.cfg.MinNameLength {
		return nil, nil, apperr.Validation("Name must be at least 3 characters long")
	}
	if !validation.ValidateEmail(in.Email) {
		return nil, nil, apperr.Validation("Please enter a valid email address")
	}
	if !validation.ValidateMobile(in.MobileNumber) {
		return nil, nil, apperr.Validation("Please enter a valid 10-digit mobile number")
	}
	if len(in.Password) < s.cfg.MinPasswordLength {
		return nil, nil, apperr.Validation("Password must be at least 4 characters long")
	}
	if in.Password != in.ConfirmPassword {
		return nil, nil, apperr.Validation("Passwords do not match")
	}

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, nil, err
	}
	for _, u := range users {
		if u.MobileNumber == in.MobileNumber {
			return nil, nil, apperr.Conflict("Mobile number already registered. Please use a different number or login.")
		}
	}
	for _, u := range users {
		if u.Email == in.Email {
			return nil, nil, apperr.Conflict("Email already registered. Please use a different email.")
		}
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, nil, err
	}
	now := s.now().UTC()
	user := entity.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		MobileNumber: in.MobileNumber,
		Address:      in.Address,
		Password:     hash,
		RegisteredAt: now,
		LastLogin:    now,
	}

	users = append(users, user)
	if err := s.saveUsers(ctx, users); err != nil {
		return nil, nil, err
	}
	pair, err := s.establishSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "mobile": user.MobileNumber}).Info("user registered")
	return &user, pair, nil
}

// Login authenticates by mobile number and establishes a fresh session.
func (s *AccountService) Login(ctx context.Context, mobileNumber, password string) (*entity.User, *TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !validation.ValidateMobile(mobileNumber) {
		return nil, nil, apperr.Validation("Please enter a valid 10-digit mobile number")
	}
	if len(password) < s.cfg.MinPasswordLength {
		return nil, nil, apperr.Validation("Password must be at least 4 characters long")
	}

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, nil, err
	}
	user, ok := findByMobile(users, mobileNumber)
	if !ok {
		return nil, nil, apperr.NotFound("Mobile number not registered. Please register first.")
	}
	if !helpers.CompareHashAndPassword(user.Password, password) {
		return nil, nil, apperr.Auth("Invalid password. Please try again.")
	}
	pair, err := s.establishSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	s.logger.WithField("user_id", user.ID).Info("user logged in")
	return &user, pair, nil
}

// Refresh rotates the session token from a valid refresh token. The refresh
// token must belong to the currently active session's user.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*entity.User, *TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	claims, err := s.jwt.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, apperr.Auth("Invalid refresh token")
	}
	sess, ok, err := s.CurrentSession(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !ok || sess.CurrentUser.ID != claims.UserID {
		return nil, nil, apperr.Auth("Session not found")
	}
	user := sess.CurrentUser
	pair, err := s.establishSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return &user, pair, nil
}

// Logout resets session-scoped state (cart, wishlist) and removes the session
// record. The registered-users collection is untouched.
func (s *AccountService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sc := range s.sessionScoped {
		if err := sc.Reset(ctx); err != nil {
			return err
		}
	}
	if err := s.store.Remove(ctx, repository.KeyCurrentSession); err != nil {
		return err
	}
	s.logger.Info("session cleared")
	return nil
}

// CurrentSession returns the active session, if any.
func (s *AccountService) CurrentSession(ctx context.Context) (*entity.Session, bool, error) {
	var sess entity.Session
	found, err := s.store.Get(ctx, repository.KeyCurrentSession, &sess)
	if err != nil || !found {
		return nil, false, err
	}
	if !sess.LoggedIn {
		return nil, false, nil
	}
	return &sess, true, nil
}

// IsLoggedIn reports whether an active session exists.
func (s *AccountService) IsLoggedIn(ctx context.Context) (bool, error) {
	_, ok, err := s.CurrentSession(ctx)
	return ok, err
}

// CurrentUser returns the session user, if logged in.
func (s *AccountService) CurrentUser(ctx context.Context) (*entity.User, bool, error) {
	sess, ok, err := s.CurrentSession(ctx)
	if err != nil || !ok {
		return nil, false, err
	}
	u := sess.CurrentUser
	return &u, true, nil
}

// ForgotPassword verifies the mobile/email pair and creates the single-slot
// OTP challenge, replacing any prior one. Delivery of the code is the
// caller's concern; the engine only generates it. The matched user is
// returned so the caller can address the delivery.
func (s *AccountService) ForgotPassword(ctx context.Context, mobileNumber, email string) (*entity.PasswordReset, *entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !validation.ValidateMobile(mobileNumber) {
		return nil, nil, apperr.Validation("Please enter a valid 10-digit mobile number")
	}
	if !validation.ValidateEmail(email) {
		return nil, nil, apperr.Validation("Please enter a valid email address")
	}

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, nil, err
	}
	var matched *entity.User
	for i := range users {
		if users[i].MobileNumber == mobileNumber && users[i].Email == email {
			matched = &users[i]
			break
		}
	}
	if matched == nil {
		return nil, nil, apperr.NotFound("No account found with this mobile number and email combination.")
	}

	otp, err := helpers.GenOTPCode()
	if err != nil {
		return nil, nil, err
	}
	reset := entity.PasswordReset{
		OTP:          otp,
		TargetMobile: mobileNumber,
		ExpiresAt:    s.now().UTC().Add(s.cfg.ResetTTL),
	}
	if err := s.store.Set(ctx, repository.KeyPasswordReset, reset); err != nil {
		return nil, nil, err
	}
	s.logger.WithField("mobile", mobileNumber).Info("password reset challenge issued")
	return &reset, matched, nil
}

// ResetPassword consumes the OTP challenge and updates the target user's
// password. The challenge is deleted on success and on expiry detection.
func (s *AccountService) ResetPassword(ctx context.Context, otp, newPassword, confirmPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(newPassword) < s.cfg.MinPasswordLength {
		return apperr.Validation("Password must be at least 4 characters long")
	}
	if newPassword != confirmPassword {
		return apperr.Validation("Passwords do not match")
	}

	var reset entity.PasswordReset
	found, err := s.store.Get(ctx, repository.KeyPasswordReset, &reset)
	if err != nil {
		return err
	}
	if !found {
		return apperr.State("OTP session expired. Please request a new OTP.")
	}
	if reset.Expired(s.now()) {
		if err := s.store.Remove(ctx, repository.KeyPasswordReset); err != nil {
			return err
		}
		return apperr.Expired("OTP has expired. Please request a new OTP.")
	}
	if reset.OTP != otp {
		return apperr.Auth("Invalid OTP. Please check and try again.")
	}

	users, err := s.loadUsers(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i := range users {
		if users[i].MobileNumber == reset.TargetMobile {
			idx = i
			break
		}
	}
	if idx == -1 {
		return apperr.NotFound("User account not found.")
	}

	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	users[idx].Password = hash
	users[idx].PasswordUpdatedAt = &now
	if err := s.saveUsers(ctx, users); err != nil {
		return err
	}
	if err := s.store.Remove(ctx, repository.KeyPasswordReset); err != nil {
		return err
	}
	s.logger.WithField("user_id", users[idx].ID).Info("password reset")
	return nil
}

// ProfilePatch carries the fields UpdateProfile merges; empty fields are
// left as they are.
type ProfilePatch struct {
	Name         string
	Email        string
	MobileNumber string
	Address      string
	AvatarURL    string
}

// UpdateProfile merges the patch into the session user's record, stamps
// updated_at, and refreshes the session's cached copy.
func (s *AccountService) UpdateProfile(ctx context.Context, patch ProfilePatch) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateProfileLocked(ctx, patch)
}

func (s *AccountService) updateProfileLocked(ctx context.Context, patch ProfilePatch) (*entity.User, error) {
	sess, ok, err := s.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.State("No user logged in")
	}

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range users {
		if users[i].ID == sess.CurrentUser.ID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, apperr.NotFound("User not found in registered users")
	}

	// Email and mobile are login identifiers; a malformed or duplicate patch
	// would lock the user (or someone else) out, so they are re-validated the
	// same way registration validates them.
	if patch.Email != "" {
		if !validation.ValidateEmail(patch.Email) {
			return nil, apperr.Validation("Please enter a valid email address")
		}
		for i := range users {
			if i != idx && users[i].Email == patch.Email {
				return nil, apperr.Conflict("Email already registered. Please use a different email.")
			}
		}
	}
	if patch.MobileNumber != "" {
		if !validation.ValidateMobile(patch.MobileNumber) {
			return nil, apperr.Validation("Please enter a valid 10-digit mobile number")
		}
		for i := range users {
			if i != idx && users[i].MobileNumber == patch.MobileNumber {
				return nil, apperr.Conflict("Mobile number already registered. Please use a different number or login.")
			}
		}
	}

	u := &users[idx]
	if patch.Name != "" {
		u.Name = patch.Name
	}
	if patch.Email != "" {
		u.Email = patch.Email
	}
	if patch.MobileNumber != "" {
		u.MobileNumber = patch.MobileNumber
	}
	if patch.Address != "" {
		u.Address = patch.Address
	}
	if patch.AvatarURL != "" {
		u.AvatarURL = patch.AvatarURL
	}
	now := s.now().UTC()
	u.UpdatedAt = &now

	if err := s.saveUsers(ctx, users); err != nil {
		return nil, err
	}
	sess.CurrentUser = *u
	if err := s.store.Set(ctx, repository.KeyCurrentSession, sess); err != nil {
		return nil, err
	}
	s.logger.WithField("user_id", u.ID).Info("profile updated")
	return u, nil
}

// UploadAvatar stores the image in GCS and records its URL on the profile.
func (s *AccountService) UploadAvatar(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gcs == nil || s.gcsBucket == "" {
		return "", apperr.State("avatar storage is not configured")
	}
	sess, ok, err := s.CurrentSession(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apperr.State("No user logged in")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", sess.CurrentUser.ID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.gcs, s.gcsBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	if _, err := s.updateProfileLocked(ctx, ProfilePatch{AvatarURL: url}); err != nil {
		return "", err
	}
	return url, nil
}

// IsMobileRegistered reports whether any user has the given mobile number.
func (s *AccountService) IsMobileRegistered(ctx context.Context, mobileNumber string) (bool, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return false, err
	}
	_, ok := findByMobile(users, mobileNumber)
	return ok, nil
}

// IsEmailRegistered reports whether any user has the given email.
func (s *AccountService) IsEmailRegistered(ctx context.Context, email string) (bool, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return false, err
	}
	for _, u := range users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// UserStats derives order count and total spend for the session user from
// the order history.
func (s *AccountService) UserStats(ctx context.Context) (*entity.UserStats, error) {
	sess, ok, err := s.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.State("No user logged in")
	}

	var orders []entity.Order
	if _, err := s.store.Get(ctx, repository.KeyOrderHistory, &orders); err != nil {
		return nil, err
	}
	stats := entity.UserStats{MemberSince: sess.CurrentUser.RegisteredAt}
	for _, o := range orders {
		if o.UserID == sess.CurrentUser.ID {
			stats.TotalOrders++
			stats.TotalSpent += o.TotalCost
		}
	}
	return &stats, nil
}

func (s *AccountService) establishSession(ctx context.Context, u entity.User) (*TokenPair, error) {
	access, aexp, err := s.jwt.GenerateAccessToken(u.ID)
	if err != nil {
		return nil, err
	}
	refresh, rexp, err := s.jwt.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}
	sess := entity.Session{LoggedIn: true, CurrentUser: u, AuthToken: access}
	if err := s.store.Set(ctx, repository.KeyCurrentSession, sess); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, AccessExpiry: aexp, RefreshToken: refresh, RefreshExpiry: rexp}, nil
}

func (s *AccountService) loadUsers(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	if _, err := s.store.Get(ctx, repository.KeyRegisteredUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *AccountService) saveUsers(ctx context.Context, users []entity.User) error {
	return s.store.Set(ctx, repository.KeyRegisteredUsers, users)
}

func findByMobile(users []entity.User, mobile string) (entity.User, bool) {
	for _, u := range users {
		if u.MobileNumber == mobile {
			return u, true
		}
	}
	return entity.User{}, false
}
