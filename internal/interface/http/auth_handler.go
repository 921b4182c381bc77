package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/eventnest/identity-service/internal/application"
	"github.com/eventnest/identity-service/internal/domain/identity"
	"github.com/eventnest/identity-service/pkg/response"
	"github.com/eventnest/identity-service/pkg/validation"
)

// AuthHandler exposes registration, OTP verification, resend, and login.
type AuthHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewAuthHandler(svc *userapp.Service, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" form:"name" binding:"required,min=2"`
	Email    string `json:"email" form:"email" binding:"required"`
	Mobile   string `json:"mobile" form:"mobile" binding:"required"`
	Password string `json:"password" form:"password" binding:"required,pwd"`
}

type verifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

type resendRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/auth/register. Accepts JSON or multipart form
// data; the multipart variant may carry a profile_image file (1 MiB cap).
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	var image *userapp.ImageUpload

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.ShouldBind(&req); err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
			return
		}
		fh, err := c.FormFile("profile_image")
		if err == nil && fh != nil {
			if fh.Size > h.Svc.MaxImageBytes {
				writeDomainError(c, h.Logger, identity.ErrImageTooLarge)
				return
			}
			f, err := fh.Open()
			if err != nil {
				writeDomainError(c, h.Logger, identity.Internal(err))
				return
			}
			data, err := io.ReadAll(io.LimitReader(f, h.Svc.MaxImageBytes+1))
			_ = f.Close()
			if err != nil {
				writeDomainError(c, h.Logger, identity.Internal(err))
				return
			}
			image = &userapp.ImageUpload{
				Data:        data,
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
			}
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
			return
		}
	}

	u, err := h.Svc.Register(c.Request.Context(), userapp.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Mobile:   req.Mobile,
		Password: req.Password,
		Image:    image,
	})
	if err != nil {
		// The identity may exist even when mail dispatch failed; say so.
		if u != nil && errors.Is(err, identity.ErrMailFailed) {
			response.Error[any](c, http.StatusBadGateway,
				"account created but the verification email could not be sent; request a new code",
				map[string]string{"code": "mail_failed"})
			return
		}
		writeDomainError(c, h.Logger, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"email": u.Email}, "OTP sent to your email")
}

// Verify handles POST /api/auth/verify.
func (h *AuthHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.Verify(c.Request.Context(), req.Email, req.OTP); err != nil {
		writeDomainError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"verified": true}, "email verified successfully")
}

// ResendOTP handles POST /api/auth/otp/resend. Always acknowledges so the
// endpoint cannot be used to probe for registered addresses.
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req resendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ResendOTP(c.Request.Context(), req.Email); err != nil {
		writeDomainError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"sent": true}, "if the account exists, a new code has been sent")
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	token, exp, u, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"token":      token,
		"expires_at": exp,
		"user": gin.H{
			"id":                u.ID,
			"name":              u.Name,
			"email":             u.Email,
			"mobile":            u.Mobile,
			"profile_image_url": u.ProfileImageURL,
		},
	}, "login successful")
}
