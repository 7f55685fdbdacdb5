package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shopeasy/shopeasy-engine/internal/application"
	"github.com/shopeasy/shopeasy-engine/pkg/helpers"
	"github.com/shopeasy/shopeasy-engine/pkg/mailer"
	"github.com/shopeasy/shopeasy-engine/pkg/response"
	"github.com/shopeasy/shopeasy-engine/pkg/validation"
)

const maxAvatarSize = 5 << 20 // 5 MiB

type AccountHandler struct {
	Svc       *application.AccountService
	Logger    *logrus.Logger
	Cookies   *helpers.CookieManager
	RabbitPub *helpers.RabbitPublisher
}

func NewAccountHandler(svc *application.AccountService, logger *logrus.Logger, cookieDomain string, cookieSecure bool, rabbitPub *helpers.RabbitPublisher) *AccountHandler {
	return &AccountHandler{
		Svc:       svc,
		Logger:    logger,
		Cookies:   helpers.NewCookie(cookieDomain, cookieSecure),
		RabbitPub: rabbitPub,
	}
}

type registerRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required"`
	MobileNumber    string `json:"mobile_number" binding:"required"`
	Address         string `json:"address"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type loginRequest struct {
	MobileNumber string `json:"mobile_number" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	MobileNumber string `json:"mobile_number" binding:"required"`
	Email        string `json:"email" binding:"required"`
}

type resetPasswordRequest struct {
	OTP             string `json:"otp" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type updateProfileRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobile_number"`
	Address      string `json:"address"`
}

func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	user, pair, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		MobileNumber:    req.MobileNumber,
		Address:         req.Address,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		fail(c, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessExpiry, pair.RefreshToken, pair.RefreshExpiry)
	response.Success(c, http.StatusCreated, userView(user), "registration successful", map[string]any{
		"access_expires_at":  pair.AccessExpiry,
		"refresh_expires_at": pair.RefreshExpiry,
	})
}

func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	user, pair, err := h.Svc.Login(c.Request.Context(), req.MobileNumber, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessExpiry, pair.RefreshToken, pair.RefreshExpiry)
	response.Success(c, http.StatusOK, userView(user), "login successful", map[string]any{
		"access_expires_at":  pair.AccessExpiry,
		"refresh_expires_at": pair.RefreshExpiry,
	})
}

func (h *AccountHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	_, pair, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		fail(c, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessExpiry, pair.RefreshToken, pair.RefreshExpiry)
	response.Success[any](c, http.StatusOK, map[string]any{"refreshed": true}, "token refreshed", map[string]any{
		"access_expires_at":  pair.AccessExpiry,
		"refresh_expires_at": pair.RefreshExpiry,
	})
}

func (h *AccountHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

func (h *AccountHandler) Me(c *gin.Context) {
	user, ok, err := h.Svc.CurrentUser(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
		return
	}
	response.Success(c, http.StatusOK, userView(user), "profile", nil)
}

func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	user, err := h.Svc.UpdateProfile(c.Request.Context(), application.ProfilePatch{
		Name:         req.Name,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Address:      req.Address,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, userView(user), "profile updated", nil)
}

func (h *AccountHandler) UploadAvatar(c *gin.Context) {
	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "avatar file is required", nil)
		return
	}
	defer func() { _ = file.Close() }()
	if header.Size > maxAvatarSize {
		response.Error[any](c, http.StatusRequestEntityTooLarge, "avatar exceeds 5MB", nil)
		return
	}

	url, err := h.Svc.UploadAvatar(c.Request.Context(), file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"avatar_url": url}, "avatar uploaded", nil)
}

func (h *AccountHandler) Stats(c *gin.Context) {
	stats, err := h.Svc.UserStats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats, "stats", nil)
}

// ForgotPassword issues the OTP challenge and queues the delivery mail. The
// code never appears in the response; only its expiry does.
func (h *AccountHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	reset, user, err := h.Svc.ForgotPassword(c.Request.Context(), req.MobileNumber, req.Email)
	if err != nil {
		fail(c, err)
		return
	}

	if h.RabbitPub != nil {
		job := mailer.EmailJob{
			To:       user.Email,
			Template: mailer.TemplatePasswordOTP,
			Data: map[string]any{
				"Name":      user.Name,
				"Code":      reset.OTP,
				"ExpiresAt": reset.ExpiresAt.Format("15:04 MST"),
			},
		}
		if err := h.RabbitPub.PublishJSON(c.Request.Context(), job); err != nil {
			h.Logger.WithError(err).Error("failed to enqueue otp mail")
		}
	}

	response.Success[any](c, http.StatusOK, map[string]any{"expires_at": reset.ExpiresAt}, "otp sent", nil)
}

func (h *AccountHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), req.OTP, req.NewPassword, req.ConfirmPassword); err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"reset": true}, "password reset successful", nil)
}
