package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ojuansoares/dolse-vitta/internal/adapter/http/middleware"
	"github.com/ojuansoares/dolse-vitta/internal/usecase"
)

type AuthHandler struct {
	auth    *usecase.Auth
	timeout time.Duration
}

func NewAuthHandler(auth *usecase.Auth, timeout time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, timeout: timeout}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	out, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{
		"message": "Login successful!",
		"user": gin.H{
			"id":       out.Session.User.ID,
			"email":    out.Session.User.Email,
			"name":     out.Admin.Name,
			"is_admin": true,
		},
		"session": gin.H{
			"access_token":  out.Session.AccessToken,
			"refresh_token": out.Session.RefreshToken,
			"expires_in":    out.Session.ExpiresIn,
			"token_type":    "Bearer",
		},
		"admin": toAdminDTO(out.Admin),
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	id, err := h.auth.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{
		"message": "Admin registered successfully!",
		"user":    gin.H{"id": id.ID, "email": id.Email, "name": req.Name},
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	if err := h.auth.Logout(ctx, middleware.TokenFrom(c)); err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"message": "Logout successful!"})
}

// Me reports the caller's identity together with its admin record, if any.
func (h *AuthHandler) Me(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)

	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	a, err := h.auth.Me(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	user := gin.H{"id": id.ID, "email": id.Email, "role": id.Role, "is_active": false}
	if a != nil {
		user["name"] = a.Name
		user["phone"] = a.Phone
		user["avatar_url"] = a.AvatarURL
		user["is_active"] = a.IsActive
	}
	ok(c, gin.H{"user": user})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)

	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	a, err := h.auth.Profile(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"profile": toAdminDTO(*a)})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	patch, bound := bindPatch(c, usecase.AdminSchema)
	if !bound {
		return
	}
	id, _ := middleware.IdentityFrom(c)

	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	if err := h.auth.UpdateProfile(ctx, id, patch); err != nil {
		writeError(c, err)
		return
	}
	a, err := h.auth.Profile(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"message": "Profile updated successfully!", "profile": toAdminDTO(*a)})
}

func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)

	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	if err := h.auth.DeleteAccount(ctx, id); err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"message": "Account deleted successfully!"})
}
