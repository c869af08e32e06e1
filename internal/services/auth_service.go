// File: internal/services/auth_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quotechat/go-quotechat/internal/domain"
	"github.com/quotechat/go-quotechat/internal/repository/user"
)

const (
	googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"
	tokenInfoTimeout   = 10 * time.Second
	sessionTokenTTL    = 7 * 24 * time.Hour
)

var (
	ErrInvalidGoogleToken = errors.New("invalid google token")
	ErrInvalidToken       = errors.New("invalid token")
)

// googleTokenInfo is the subset of the tokeninfo response we consume.
type googleTokenInfo struct {
	Sub     string `json:"sub"`
	Aud     string `json:"aud"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// AuthService exchanges Google ID tokens for users and session JWTs.
// Authentication is optional everywhere; callers without a valid token
// operate as guests.
type AuthService struct {
	userRepo       user.UserRepository
	jwtSecretKey   string
	googleClientID string
	httpClient     *http.Client
	logger         Logger
}

func NewAuthService(userRepo user.UserRepository, jwtSecretKey, googleClientID string, logger Logger) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		jwtSecretKey:   jwtSecretKey,
		googleClientID: googleClientID,
		httpClient:     &http.Client{Timeout: tokenInfoTimeout},
		logger:         logger,
	}
}

// LoginWithGoogle verifies a Google ID token, upserts the matching user and
// returns a session JWT for it.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (string, *domain.User, error) {
	if idToken == "" {
		return "", nil, ErrInvalidGoogleToken
	}

	info, err := s.verifyGoogleToken(ctx, idToken)
	if err != nil {
		s.logger.Warn("google token verification failed", "error", err.Error())
		return "", nil, ErrInvalidGoogleToken
	}

	account, err := s.upsertUser(ctx, info)
	if err != nil {
		s.logger.Error("user upsert failed during login", "error", err.Error())
		return "", nil, fmt.Errorf("could not persist user: %w", err)
	}

	token, err := s.TokenFor(account)
	if err != nil {
		s.logger.Error("session token generation failed", "user_id", account.ID, "error", err.Error())
		return "", nil, fmt.Errorf("could not generate token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", account.ID)
	return token, account, nil
}

// verifyGoogleToken calls Google's tokeninfo endpoint and checks the audience.
func (s *AuthService) verifyGoogleToken(ctx context.Context, idToken string) (*googleTokenInfo, error) {
	endpoint := googleTokenInfoURL + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tokeninfo returned status %d", resp.StatusCode)
	}

	var info googleTokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("tokeninfo decode failed: %w", err)
	}

	if info.Sub == "" || info.Email == "" {
		return nil, errors.New("tokeninfo response missing subject or email")
	}
	if s.googleClientID != "" && info.Aud != s.googleClientID {
		return nil, errors.New("token audience mismatch")
	}

	return &info, nil
}

// upsertUser finds the user by Google subject first, then by email for
// accounts that predate the Google link, and creates one when neither hits.
func (s *AuthService) upsertUser(ctx context.Context, info *googleTokenInfo) (*domain.User, error) {
	existing, err := s.userRepo.FindByGoogleID(ctx, info.Sub)
	if err == nil {
		existing.Email = info.Email
		existing.Name = info.Name
		existing.Avatar = info.Picture
		if updateErr := s.userRepo.Update(ctx, existing); updateErr != nil {
			return nil, updateErr
		}
		return existing, nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return nil, err
	}

	existing, err = s.userRepo.FindByEmail(ctx, info.Email)
	if err == nil {
		sub := info.Sub
		existing.GoogleID = &sub
		existing.Name = info.Name
		existing.Avatar = info.Picture
		if updateErr := s.userRepo.Update(ctx, existing); updateErr != nil {
			return nil, updateErr
		}
		return existing, nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return nil, err
	}

	sub := info.Sub
	return s.userRepo.Create(ctx, &domain.User{
		GoogleID: &sub,
		Email:    info.Email,
		Name:     info.Name,
		Avatar:   info.Picture,
	})
}

// ValidateToken checks a session JWT and returns the user id it carries.
func (s *AuthService) ValidateToken(tokenString string) (uint, error) {
	if tokenString == "" {
		return 0, ErrInvalidToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecretKey), nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if userID, ok := claims["user_id"].(float64); ok {
			return uint(userID), nil
		}
		return 0, ErrInvalidToken
	}

	return 0, ErrInvalidToken
}

// CurrentUser resolves a session JWT to its user record.
func (s *AuthService) CurrentUser(ctx context.Context, tokenString string) (*domain.User, error) {
	userID, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	account, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return account, nil
}

// TokenFor mints a signed session JWT for the account.
func (s *AuthService) TokenFor(account *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": account.ID,
		"email":   account.Email,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(sessionTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecretKey))
}
