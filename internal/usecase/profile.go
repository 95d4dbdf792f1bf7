package usecase

import (
	"context"
	"errors"

	domain "github.com/ojuansoares/dolse-vitta/internal/entity"
)

type SiteProfile struct {
	store SiteProfileStore
}

func NewSiteProfile(store SiteProfileStore) *SiteProfile {
	return &SiteProfile{store: store}
}

// Get returns nil without error when no profile has been saved yet.
func (uc *SiteProfile) Get(ctx context.Context) (*domain.SiteProfile, error) {
	p, err := uc.store.GetSiteProfile(ctx)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, upstream("get site profile", err)
	}
	return p, nil
}

// Update upserts the singleton profile with the present fields.
func (uc *SiteProfile) Update(ctx context.Context, patch Patch) error {
	if patch.Len() == 0 {
		return nil
	}
	if v, ok := patch.Get("experience_years"); ok {
		if n, _ := v.(int); n < 0 {
			return validationf("experience_years must be greater than or equal to 0")
		}
	}
	if err := uc.store.UpsertSiteProfile(ctx, patch); err != nil {
		return upstream("update site profile", err)
	}
	return nil
}
