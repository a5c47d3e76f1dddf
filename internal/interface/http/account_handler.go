package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campus-auth/internal/application"
	"github.com/oksasatya/campus-auth/internal/domain/entity"
	"github.com/oksasatya/campus-auth/internal/interface/middleware"
	"github.com/oksasatya/campus-auth/pkg/response"
	"github.com/oksasatya/campus-auth/pkg/validation"
)

const maxAvatarBytes = 5 << 20

type AccountHandler struct {
	Svc    *application.AccountService
	Logger *logrus.Logger
}

func NewAccountHandler(svc *application.AccountService, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{Svc: svc, Logger: logger}
}

type updateProfileRequest struct {
	NIM         *string `json:"nim" binding:"omitempty,nim"`
	FullName    *string `json:"fullName" binding:"omitempty,min=1,max=100"`
	Bio         *string `json:"bio" binding:"omitempty,max=500"`
	PhoneNumber *string `json:"phoneNumber" binding:"omitempty,phone"`
	AvatarURL   *string `json:"avatar" binding:"omitempty,url"`
	Major       *string `json:"major" binding:"omitempty,max=100"`
	Batch       *string `json:"batch" binding:"omitempty,numeric,len=4"`
	Address     *string `json:"address" binding:"omitempty,max=255"`
	City        *string `json:"city" binding:"omitempty,max=100"`
	Province    *string `json:"province" binding:"omitempty,max=100"`
	PostalCode  *string `json:"postalCode" binding:"omitempty,postal"`
	Country     *string `json:"country" binding:"omitempty,max=100"`
}

func (r updateProfileRequest) patch() entity.ProfilePatch {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := strings.TrimSpace(*s)
		return &v
	}
	return entity.ProfilePatch{
		NIM:         trim(r.NIM),
		FullName:    trim(r.FullName),
		Bio:         trim(r.Bio),
		PhoneNumber: trim(r.PhoneNumber),
		AvatarURL:   trim(r.AvatarURL),
		Major:       trim(r.Major),
		Batch:       trim(r.Batch),
		Address:     trim(r.Address),
		City:        trim(r.City),
		Province:    trim(r.Province),
		PostalCode:  trim(r.PostalCode),
		Country:     trim(r.Country),
	}
}

// writeErr maps service errors onto HTTP statuses.
func (h *AccountHandler) writeErr(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, application.ErrAccountNotFound):
		response.Error[any](c, http.StatusNotFound, "account not found", nil)
	case errors.Is(err, application.ErrAccountInactive):
		response.Error[any](c, http.StatusUnauthorized, "account is not active", nil)
	case errors.Is(err, application.ErrConflict):
		response.Error[any](c, http.StatusConflict, "nim already exists", map[string]string{"nim": "already used by another account"})
	case errors.Is(err, application.ErrStorageNotConfigured):
		response.Error[any](c, http.StatusServiceUnavailable, "avatar storage unavailable", nil)
	default:
		h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error(fallback)
		response.Error[any](c, http.StatusInternalServerError, fallback, nil)
	}
}

// GetMe GET /api/auth/me
func (h *AccountHandler) GetMe(c *gin.Context) {
	p, err := h.Svc.GetProfile(c.Request.Context(), c.GetString(middleware.CtxAccountIDKey))
	if err != nil {
		h.writeErr(c, err, "failed to load profile")
		return
	}
	response.Success(c, http.StatusOK, p, "profile", nil)
}

// UpdateMe PUT /api/auth/me
func (h *AccountHandler) UpdateMe(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.UpdateProfile(c.Request.Context(), c.GetString(middleware.CtxAccountIDKey), req.patch())
	if err != nil {
		h.writeErr(c, err, "failed to update profile")
		return
	}
	response.Success(c, http.StatusOK, p, "profile updated", nil)
}

// UploadAvatar POST /api/auth/me/avatar (multipart field "avatar")
func (h *AccountHandler) UploadAvatar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAvatarBytes+1<<20)
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "avatar file is required", nil)
		return
	}
	if fh.Size > maxAvatarBytes {
		response.Error[any](c, http.StatusBadRequest, "avatar too large", map[string]any{"max_bytes": maxAvatarBytes})
		return
	}
	ct := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		response.Error[any](c, http.StatusBadRequest, "avatar must be an image", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "cannot read avatar", nil)
		return
	}
	defer f.Close()

	p, err := h.Svc.UploadAvatar(c.Request.Context(), c.GetString(middleware.CtxAccountIDKey), f, fh.Filename, ct)
	if err != nil {
		h.writeErr(c, err, "failed to upload avatar")
		return
	}
	response.Success(c, http.StatusOK, p, "avatar updated", nil)
}

// Search GET /api/accounts/search?q=&size=
func (h *AccountHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "query is required", map[string]string{"q": "required"})
		return
	}
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Svc.SearchAccounts(c.Request.Context(), q, size)
	if err != nil {
		h.writeErr(c, err, "search failed")
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}
