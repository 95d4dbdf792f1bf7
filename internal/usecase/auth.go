package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/ojuansoares/dolse-vitta/internal/entity"
)

const minPasswordLen = 6

type LoginOutput struct {
	Session domain.Session
	Admin   domain.Admin
}

// Auth signs admins in and out through the identity provider and keeps their
// local admin records.
type Auth struct {
	idp    IdentityProvider
	admins AdminStore
	now    func() time.Time
}

func NewAuth(idp IdentityProvider, admins AdminStore) *Auth {
	return &Auth{idp: idp, admins: admins, now: func() time.Time { return time.Now().UTC() }}
}

// Login succeeds only for identities with an active admin record.
func (uc *Auth) Login(ctx context.Context, email, password string) (LoginOutput, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return LoginOutput{}, validationf("email and password are required")
	}

	sess, err := uc.idp.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return LoginOutput{}, &Error{Kind: ErrUnauthorized, Msg: "invalid credentials"}
		}
		return LoginOutput{}, upstream("sign in", err)
	}

	admin, err := uc.admins.GetAdmin(ctx, sess.User.ID)
	if errors.Is(err, ErrRecordNotFound) {
		return LoginOutput{}, &Error{Kind: ErrForbidden, Msg: "access denied"}
	}
	if err != nil {
		return LoginOutput{}, upstream("get admin", err)
	}
	if !admin.IsActive {
		return LoginOutput{}, &Error{Kind: ErrForbidden, Msg: "access denied"}
	}
	return LoginOutput{Session: sess, Admin: *admin}, nil
}

func (uc *Auth) Register(ctx context.Context, email, password, name string) (domain.Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.Identity{}, validationf("a valid email is required")
	}
	if len(password) < minPasswordLen {
		return domain.Identity{}, validationf("password must have at least %d characters", minPasswordLen)
	}

	id, err := uc.idp.SignUp(ctx, email, password, strings.TrimSpace(name))
	if err != nil {
		return domain.Identity{}, upstream("sign up", err)
	}
	err = uc.admins.InsertAdmin(ctx, domain.Admin{
		ID:        id.ID,
		Email:     email,
		Name:      strings.TrimSpace(name),
		IsActive:  true,
		CreatedAt: uc.now(),
	})
	if err != nil {
		return domain.Identity{}, upstream("create admin", err)
	}
	return id, nil
}

func (uc *Auth) Logout(ctx context.Context, accessToken string) error {
	if err := uc.idp.SignOut(ctx, accessToken); err != nil {
		return upstream("sign out", err)
	}
	return nil
}

// Me returns the admin record of id, or nil when the identity has none.
func (uc *Auth) Me(ctx context.Context, id domain.Identity) (*domain.Admin, error) {
	a, err := uc.admins.GetAdmin(ctx, id.ID)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, upstream("get admin", err)
	}
	return a, nil
}

func (uc *Auth) Profile(ctx context.Context, id domain.Identity) (*domain.Admin, error) {
	a, err := uc.admins.GetAdmin(ctx, id.ID)
	if err != nil {
		return nil, storeErr("get admin", "profile", err)
	}
	return a, nil
}

func (uc *Auth) UpdateProfile(ctx context.Context, id domain.Identity, patch Patch) error {
	if patch.Len() == 0 {
		return nil
	}
	if err := uc.admins.UpdateAdmin(ctx, id.ID, patch); err != nil {
		return storeErr("update admin", "profile", err)
	}
	return nil
}

func (uc *Auth) DeleteAccount(ctx context.Context, id domain.Identity) error {
	if err := uc.admins.DeleteAdmin(ctx, id.ID); err != nil {
		return storeErr("delete admin", "profile", err)
	}
	return nil
}
