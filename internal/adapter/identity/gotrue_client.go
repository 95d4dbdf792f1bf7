package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domain "github.com/ojuansoares/dolse-vitta/internal/entity"
	"github.com/ojuansoares/dolse-vitta/internal/usecase"
)

// Client talks to a GoTrue-compatible auth API (/auth/v1/...).
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
}

func NewClient(baseURL, anonKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type userDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u userDTO) identity() domain.Identity {
	return domain.Identity{ID: u.ID, Email: u.Email, Role: u.Role}
}

type tokenResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	ExpiresIn    int     `json:"expires_in"`
	User         userDTO `json:"user"`
}

type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Message string `json:"msg"`
	Desc    string `json:"error_description"`
}

func (e *apiError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Desc
	}
	return fmt.Sprintf("identity provider: status %d: %s %s", e.Status, e.Code, msg)
}

func (c *Client) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	var out tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "",
		map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		var ae *apiError
		if errors.As(err, &ae) && (ae.Status == http.StatusBadRequest || ae.Status == http.StatusUnauthorized) {
			return domain.Session{}, fmt.Errorf("%w: %v", usecase.ErrUnauthorized, err)
		}
		return domain.Session{}, err
	}
	if out.AccessToken == "" {
		return domain.Session{}, fmt.Errorf("identity provider: sign in returned no token")
	}
	return domain.Session{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		ExpiresIn:    out.ExpiresIn,
		User:         out.User.identity(),
	}, nil
}

// SignUp returns the created user. Depending on email confirmation settings
// the provider answers with a bare user or a session wrapping it.
func (c *Client) SignUp(ctx context.Context, email, password, name string) (domain.Identity, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"name": name},
	}
	var out struct {
		userDTO
		User *userDTO `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", "", body, &out); err != nil {
		return domain.Identity{}, err
	}
	u := out.userDTO
	if out.User != nil && out.User.ID != "" {
		u = *out.User
	}
	if u.ID == "" {
		return domain.Identity{}, fmt.Errorf("identity provider: sign up returned no user id")
	}
	return u.identity(), nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, bearer string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.anonKey != "" {
		req.Header.Set("apikey", c.anonKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		ae := &apiError{Status: resp.StatusCode}
		_ = json.Unmarshal(raw, ae)
		return ae
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("identity provider %s: decode: %w", path, err)
	}
	return nil
}

var _ usecase.IdentityProvider = (*Client)(nil)
