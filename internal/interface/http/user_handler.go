package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/eventnest/identity-service/internal/application"
	"github.com/eventnest/identity-service/internal/domain/identity"
	"github.com/eventnest/identity-service/pkg/response"
)

// UserHandler exposes the authenticated profile surface.
type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// GetProfile handles GET /api/profile. The response never includes the
// password hash or any pending OTP.
func (h *UserHandler) GetProfile(c *gin.Context) {
	uid := c.GetString("userID")
	u, err := h.Svc.Profile(c.Request.Context(), uid)
	if err != nil {
		writeDomainError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"id":                u.ID,
		"name":              u.Name,
		"email":             u.Email,
		"mobile":            u.Mobile,
		"is_verified":       u.IsVerified,
		"profile_image_url": u.ProfileImageURL,
		"registrations":     u.Registrations,
		"created_at":        u.CreatedAt,
		"updated_at":        u.UpdatedAt,
	}, "profile")
}

// UploadImage handles POST /api/profile/image (multipart, field
// profile_image, 1 MiB cap).
func (h *UserHandler) UploadImage(c *gin.Context) {
	uid := c.GetString("userID")
	fh, err := c.FormFile("profile_image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "profile_image file is required", nil)
		return
	}
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

	url, err := h.Svc.UploadProfileImage(c.Request.Context(), uid, userapp.ImageUpload{
		Data:        data,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
	})
	if err != nil {
		writeDomainError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile_image_url": url}, "profile image updated")
}

// Search handles GET /api/users/search?q=&size=.
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "q is required", nil)
		return
	}
	size := 10
	if v := c.Query("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			size = n
		}
	}
	hits, err := h.Svc.SearchIdentities(c.Request.Context(), q, size)
	if err != nil {
		writeDomainError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results")
}
