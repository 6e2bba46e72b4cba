package auth

import (
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Service owns the authentication flow. It is the only writer of the
// session store; guards and handlers read.
type Service struct {
	repo       RepositoryAPI
	tokenGen   TokenGeneratorAPI
	sessions   *SessionStore
	logger     *slog.Logger
	bcryptCost int
	now        func() time.Time
}

func NewService(repo RepositoryAPI, tokenGen TokenGeneratorAPI, sessions *SessionStore, logger *slog.Logger, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		tokenGen:   tokenGen,
		sessions:   sessions,
		logger:     logger,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// Login validates credentials and, on success, atomically replaces the
// session for sessionKey and reports where to navigate (the DTO's return
// target, default application root). No partial session state survives a
// failure: the store is only written after every step succeeded. Concurrent
// logins for the same key are not cancelled; each completion writes
// independently and the last write wins.
func (s *Service) Login(sessionKey string, dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	creds, err := s.repo.GetCredentials(dto.Username)
	if err != nil {
		s.logger.Warn("login: unknown identifier", "username", dto.Username)
		return nil, ErrInvalidCredentials
	}

	if !creds.IsActive {
		return nil, ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	userID := strconv.FormatInt(creds.UserID, 10)

	user, err := s.repo.GetUserWithPermissions(creds.UserID)
	if err != nil {
		s.logger.Error("login: failed to load identity", "user_id", creds.UserID, "error", err)
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.tokenGen.GenerateAccessToken(userID, user.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokenGen.GenerateRefreshToken(userID, user.Email)
	if err != nil {
		return nil, err
	}

	claims, err := s.tokenGen.ValidateToken(accessToken)
	if err != nil {
		return nil, err
	}

	if err := s.repo.TouchLastLogin(creds.UserID, s.now()); err != nil {
		// Non-fatal: the login itself succeeded.
		s.logger.Warn("login: failed to stamp last login", "user_id", creds.UserID, "error", err)
	}

	s.sessions.Set(sessionKey, accessToken, claims)

	s.logger.Info("login succeeded", "user_id", creds.UserID, "username", user.Username)

	return &LoginResult{
		Tokens:     AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken},
		RedirectTo: dto.RedirectTarget(),
	}, nil
}

// Logout clears the session unconditionally. It serves both the explicit
// sign-out action and the guard's expiry branch.
func (s *Service) Logout(sessionKey string) {
	s.sessions.Clear(sessionKey)
}

// RefreshTokens validates a refresh token and returns a new pair.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGen.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	accessToken, err := s.tokenGen.GenerateAccessToken(claims.UserID, claims.Email)
	if err != nil {
		return AuthTokens{}, err
	}

	newRefreshToken, err := s.tokenGen.GenerateRefreshToken(claims.UserID, claims.Email)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// ValidateAccessToken validates an access token and returns its claims.
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGen.ValidateToken(tokenString)
}

// GetUserWithPermissions loads the identity and its effective permission
// set from the latest assignment data.
func (s *Service) GetUserWithPermissions(userID int64) (*User, error) {
	return s.repo.GetUserWithPermissions(userID)
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	return HashPassword(password, s.bcryptCost)
}
