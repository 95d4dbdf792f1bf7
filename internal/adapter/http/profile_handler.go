package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ojuansoares/dolse-vitta/internal/usecase"
)

type ProfileHandler struct {
	profile *usecase.SiteProfile
	timeout time.Duration
}

func NewProfileHandler(profile *usecase.SiteProfile, timeout time.Duration) *ProfileHandler {
	return &ProfileHandler{profile: profile, timeout: timeout}
}

// Get answers with "about": null until a profile has been saved.
func (h *ProfileHandler) Get(c *gin.Context) {
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	p, err := h.profile.Get(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	if p == nil {
		ok(c, gin.H{"about": nil})
		return
	}
	ok(c, gin.H{"about": toProfileDTO(*p)})
}

func (h *ProfileHandler) Update(c *gin.Context) {
	patch, bound := bindPatch(c, usecase.SiteProfileSchema)
	if !bound {
		return
	}

	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	if err := h.profile.Update(ctx, patch); err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"message": "About updated successfully!", "updated_fields": patch.Fields()})
}
