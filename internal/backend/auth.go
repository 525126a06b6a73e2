package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

const minPasswordLength = 6

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validation errors for the signup form
var (
	ErrNameRequired     = errors.New("please enter your name")
	ErrEmailRequired    = errors.New("please enter your email")
	ErrEmailInvalid     = errors.New("please enter a valid email")
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordRequired = errors.New("please enter your password")
)

// SignupRequest is the signup form
type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
}

// Validate checks the form in the order the fields are shown
func (r SignupRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(r.Email) == "" {
		return ErrEmailRequired
	}
	if !emailRe.MatchString(r.Email) {
		return ErrEmailInvalid
	}
	if len(r.Password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if r.Password != r.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}

// Login exchanges credentials for an access token
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", ErrEmailRequired
	}
	if password == "" {
		return "", ErrPasswordRequired
	}

	var resp authResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/users/auth/login", body, false, &resp); err != nil {
		return "", fmt.Errorf("login failed: %w", err)
	}
	if resp.User == nil || resp.User.Token == "" {
		return "", errors.New("login failed: no token in response")
	}
	return resp.User.Token, nil
}

// Signup creates an account and returns its access token
func (c *Client) Signup(ctx context.Context, req SignupRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/users/auth/signup", req, false, &resp); err != nil {
		return "", fmt.Errorf("failed to create account: %w", err)
	}
	if resp.User == nil || resp.User.Token == "" {
		c.logger.Error("unexpected signup response", "message", resp.Message)
		return "", errors.New("failed to create account, please try again")
	}
	return resp.User.Token, nil
}

// Me returns the signed-in user's profile
func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, true, &profile); err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}
