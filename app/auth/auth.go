// Package auth implements the Google authorization-code sign-in and the
// sessions it creates.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"zettaboard/app/models"
	"zettaboard/app/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	Provider = "google"

	googleAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
)

var (
	ErrInvalidState = errors.New("auth: invalid oauth state")
	ErrNoSession    = errors.New("auth: no session")
)

var Scopes = []string{"openid", "email", "profile"}

type Config struct {
	ClientID      string
	ClientSecret  string
	RedirectURL   string
	SessionSecret string
	SessionTTL    time.Duration

	// Overridable for tests.
	AuthURL     string
	TokenURL    string
	UserInfoURL string
}

// Flow is the per-attempt secret kept by the browser between the redirect
// to Google and the callback.
type Flow struct {
	State    string `json:"s"`
	Verifier string `json:"v"`
	URL      string `json:"-"`
}

type Service struct {
	oauth       *oauth2.Config
	userInfoURL string
	ttl         time.Duration
	sessions    repositories.SessionRepository
	sealer      *Sealer
	httpClient  *http.Client
	now         func() time.Time
	log         *zap.Logger
}

func New(cfg Config, sessions repositories.SessionRepository, log *zap.Logger) (*Service, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("auth: client id and secret are required")
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("auth: session secret is required")
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = googleAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = googleTokenURL
	}
	if cfg.UserInfoURL == "" {
		cfg.UserInfoURL = googleUserInfoURL
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * 24 * time.Hour
	}

	return &Service{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		userInfoURL: cfg.UserInfoURL,
		ttl:         cfg.SessionTTL,
		sessions:    sessions,
		sealer:      NewSealer(cfg.SessionSecret),
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		now:         time.Now,
		log:         log,
	}, nil
}

// Begin starts a sign-in: a random state, a PKCE verifier and the Google
// consent URL requesting offline access.
func (s *Service) Begin() (*Flow, error) {
	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		return nil, err
	}
	state := base64.RawURLEncoding.EncodeToString(stateBytes)
	verifier := oauth2.GenerateVerifier()

	url := s.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.S256ChallengeOption(verifier),
	)
	return &Flow{State: state, Verifier: verifier, URL: url}, nil
}

// EncodeFlow seals a flow into an opaque cookie value.
func (s *Service) EncodeFlow(f *Flow) (string, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	sealed, err := s.sealer.Seal(data)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (s *Service) DecodeFlow(v string) (*Flow, error) {
	raw, err := base64.RawURLEncoding.DecodeString(v)
	if err != nil {
		return nil, ErrInvalidState
	}
	data, err := s.sealer.Open(raw)
	if err != nil {
		return nil, ErrInvalidState
	}
	var f Flow
	if err := json.Unmarshal(data, &f); err != nil || f.State == "" {
		return nil, ErrInvalidState
	}
	return &f, nil
}

// Complete checks the returned state, exchanges the code and stores a new
// session holding the sealed provider token.
func (s *Service) Complete(ctx context.Context, flow *Flow, state, code string) (*models.Session, error) {
	if flow == nil || state == "" || subtle.ConstantTimeCompare([]byte(flow.State), []byte(state)) != 1 {
		return nil, ErrInvalidState
	}
	if code == "" {
		return nil, errors.New("auth: no code received")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	tok, err := s.oauth.Exchange(ctx, code, oauth2.VerifierOption(flow.Verifier))
	if err != nil {
		return nil, fmt.Errorf("exchange failed: %w", err)
	}

	user, err := s.fetchProfile(ctx, tok)
	if err != nil {
		return nil, err
	}

	tokData, err := json.Marshal(tok)
	if err != nil {
		return nil, err
	}
	sealed, err := s.sealer.Seal(tokData)
	if err != nil {
		return nil, err
	}

	now := s.now()
	session := &models.Session{
		ID:        uuid.NewString(),
		User:      user,
		Provider:  Provider,
		Token:     sealed,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	s.log.Info("User signed in", zap.String("session", session.ID), zap.String("email", user.Email))
	return session, nil
}

func (s *Service) fetchProfile(ctx context.Context, tok *oauth2.Token) (models.SessionUser, error) {
	client := s.oauth.Client(ctx, tok)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return models.SessionUser{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return models.SessionUser{}, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return models.SessionUser{}, fmt.Errorf("userinfo failed: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var info struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return models.SessionUser{}, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	return models.SessionUser{Name: info.Name, Email: info.Email, Image: info.Picture}, nil
}

// Session returns the live session for id.
func (s *Service) Session(id string) (*models.Session, error) {
	if id == "" {
		return nil, ErrNoSession
	}
	session, err := s.sessions.GetByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// SignOut deletes the session. Unknown ids are not an error.
func (s *Service) SignOut(id string) error {
	if id == "" {
		return nil
	}
	if err := s.sessions.Delete(id); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	return nil
}

// Token unseals the provider token of a session.
func (s *Service) Token(session *models.Session) (*oauth2.Token, error) {
	data, err := s.sealer.Open(session.Token)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}
