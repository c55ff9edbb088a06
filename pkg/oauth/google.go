// Package oauth implements Google sign-in for dashboard operators.
package oauth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var (
	ErrInvalidCode        = errors.New("invalid authorization code")
	ErrFailedToGetUser    = errors.New("failed to get user info from Google")
	ErrInvalidState       = errors.New("invalid state parameter")
	ErrEmailNotVerified   = errors.New("Google account email is not verified")
	ErrOAuthNotConfigured = errors.New("Google sign-in is not configured")
)

const (
	userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	stateTTL    = 10 * time.Minute
)

// GoogleUserInfo is the subset of the userinfo response we use.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleOAuthConfig holds the client credentials and redirect targets.
type GoogleOAuthConfig struct {
	ClientID           string
	ClientSecret       string
	RedirectURL        string
	FrontendSuccessURL string
	FrontendErrorURL   string
	// StateSecret signs the state parameter.
	StateSecret string
}

// GoogleOAuthService runs the authorization code flow.
type GoogleOAuthService struct {
	config             *oauth2.Config
	frontendSuccessURL string
	frontendErrorURL   string
	stateSecret        []byte
	userInfoURL        string
	now                func() time.Time
}

func NewGoogleOAuthService(cfg GoogleOAuthConfig) *GoogleOAuthService {
	return &GoogleOAuthService{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		frontendSuccessURL: cfg.FrontendSuccessURL,
		frontendErrorURL:   cfg.FrontendErrorURL,
		stateSecret:        []byte(cfg.StateSecret),
		userInfoURL:        userInfoURL,
		now:                time.Now,
	}
}

// IsConfigured reports whether client credentials are present.
func (s *GoogleOAuthService) IsConfigured() bool {
	return s.config.ClientID != "" && s.config.ClientSecret != ""
}

// AuthURL returns the consent URL with a freshly signed state.
func (s *GoogleOAuthService) AuthURL() string {
	return s.config.AuthCodeURL(s.NewState(), oauth2.AccessTypeOnline)
}

// NewState returns "<unix>.<mac>" so the callback can be checked without
// server-side session storage.
func (s *GoogleOAuthService) NewState() string {
	ts := strconv.FormatInt(s.now().Unix(), 10)
	return ts + "." + s.sign(ts)
}

// VerifyState checks the signature and age of a state value.
func (s *GoogleOAuthService) VerifyState(state string) error {
	ts, mac, ok := strings.Cut(state, ".")
	if !ok || !hmac.Equal([]byte(mac), []byte(s.sign(ts))) {
		return ErrInvalidState
	}
	issued, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ErrInvalidState
	}
	if s.now().Sub(time.Unix(issued, 0)) > stateTTL {
		return ErrInvalidState
	}
	return nil
}

func (s *GoogleOAuthService) sign(v string) string {
	h := hmac.New(sha256.New, s.stateSecret)
	h.Write([]byte(v))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// Authenticate exchanges the code and returns the verified Google profile.
func (s *GoogleOAuthService) Authenticate(ctx context.Context, code string) (*GoogleUserInfo, error) {
	if !s.IsConfigured() {
		return nil, ErrOAuthNotConfigured
	}
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCode, err)
	}
	info, err := s.userInfo(ctx, s.config.Client(ctx, token))
	if err != nil {
		return nil, err
	}
	if !info.VerifiedEmail {
		return nil, ErrEmailNotVerified
	}
	return info, nil
}

func (s *GoogleOAuthService) userInfo(ctx context.Context, client *http.Client) (*GoogleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToGetUser, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: status %d: %s", ErrFailedToGetUser, resp.StatusCode, body)
	}

	var info GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToGetUser, err)
	}
	return &info, nil
}

// SuccessRedirect puts the issued tokens in the URL fragment of the
// frontend success page.
func (s *GoogleOAuthService) SuccessRedirect(accessToken, refreshToken string, expiresIn int64) string {
	v := url.Values{}
	v.Set("access_token", accessToken)
	v.Set("refresh_token", refreshToken)
	v.Set("expires_in", strconv.FormatInt(expiresIn, 10))
	return s.frontendSuccessURL + "#" + v.Encode()
}

// ErrorRedirect sends the user back with a short error message.
func (s *GoogleOAuthService) ErrorRedirect(message string) string {
	return s.frontendErrorURL + "?error=" + url.QueryEscape(message)
}
