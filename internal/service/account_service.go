package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"learnquest/internal/apperr"
	"learnquest/internal/domain"
	"learnquest/internal/logger"
	"learnquest/internal/metrics"
	"learnquest/internal/repository"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	maxPasswordBytes  = 72
	resetTokenBytes   = 32
)

type AccountConfig struct {
	HashCost int
	ResetTTL time.Duration
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type AuthResult struct {
	User   *domain.User `json:"user"`
	Tokens *TokenPair   `json:"tokens"`
}

// ProfilePatch lists the only fields a user may change on their own profile. Nil means unchanged.
type ProfilePatch struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email"`
	ActiveTheme *string `json:"active_theme"`
}

type AccountService struct {
	tx       Transactor
	users    UserRepository
	resets   PasswordResetRepository
	tokens   *TokenService
	audit    *AuditService
	cfg      AccountConfig
	validate *validator.Validate
	now      func() time.Time

	// compared against on unknown usernames so both paths pay for bcrypt
	dummyHash []byte
}

func NewAccountService(
	tx Transactor,
	users UserRepository,
	resets PasswordResetRepository,
	tokens *TokenService,
	audit *AuditService,
	cfg AccountConfig,
) *AccountService {
	if cfg.HashCost == 0 {
		cfg.HashCost = bcrypt.DefaultCost
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = time.Hour
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("learnquest-dummy-password"), cfg.HashCost)
	if err != nil {
		logger.Warn("dummy hash generation failed", "error", err)
	}
	return &AccountService{
		tx:        tx,
		users:     users,
		resets:    resets,
		tokens:    tokens,
		audit:     audit,
		cfg:       cfg,
		validate:  validator.New(),
		now:       time.Now,
		dummyHash: dummy,
	}
}

func (s *AccountService) checkEmail(email string) error {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func checkPassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return ErrWeakPassword
	}
	if len(password) > maxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

func (s *AccountService) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.HashCost)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return string(h), nil
}

// Register validates in order: email syntax, username uniqueness, email uniqueness, password strength.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" {
		return nil, ErrInvalidInput
	}
	if err := s.checkEmail(email); err != nil {
		return nil, err
	}

	taken, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if taken {
		return nil, ErrDuplicateUsername
	}
	taken, err = s.users.EmailExists(ctx, email, 0)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if taken {
		return nil, ErrDuplicateEmail
	}

	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := domain.NewUser(username, email, hash, strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName))
	if err := s.users.Create(ctx, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, ErrDuplicateUsername
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrDuplicateEmail
		}
		return nil, apperr.Internal(err)
	}

	pair, err := s.tokens.Issue(u)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	s.audit.LogAuth(ctx, u.ID, domain.AuditActionRegister, map[string]interface{}{"username": u.Username})
	metrics.RecordAuth(domain.AuditActionRegister, "ok")
	logger.WithContext(ctx).Infow("user registered", "user_id", u.ID, "username", u.Username)

	return &AuthResult{User: u, Tokens: pair}, nil
}

// Login checks credentials first; a disabled account is reported only after the password matched.
func (s *AccountService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Internal(err)
	}
	if u == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		s.loginFailed(ctx, 0, username)
		return nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		s.loginFailed(ctx, u.ID, username)
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		metrics.RecordAuth(domain.AuditActionLogin, ErrAccountDisabled.Code)
		return nil, ErrAccountDisabled
	}

	pair, err := s.tokens.Issue(u)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	s.audit.LogAuth(ctx, u.ID, domain.AuditActionLogin, nil)
	metrics.RecordAuth(domain.AuditActionLogin, "ok")
	return &AuthResult{User: u, Tokens: pair}, nil
}

func (s *AccountService) loginFailed(ctx context.Context, userID int64, username string) {
	s.audit.LogAuth(ctx, userID, domain.AuditActionLoginFailed, map[string]interface{}{"username": username})
	metrics.RecordAuth(domain.AuditActionLogin, ErrInvalidCredentials.Code)
}

// Logout is stateless: tokens stay valid until they expire. Only the event is recorded.
func (s *AccountService) Logout(ctx context.Context, userID int64) {
	s.audit.LogAuth(ctx, userID, domain.AuditActionLogout, nil)
	metrics.RecordAuth(domain.AuditActionLogout, "ok")
}

func (s *AccountService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return apperr.Internal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)) != nil {
		metrics.RecordAuth(domain.AuditActionPasswordChange, ErrInvalidCredentials.Code)
		return ErrInvalidCredentials
	}
	if err := checkPassword(newPassword); err != nil {
		return err
	}

	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return apperr.Internal(err)
	}

	s.audit.LogAuth(ctx, u.ID, domain.AuditActionPasswordChange, nil)
	metrics.RecordAuth(domain.AuditActionPasswordChange, "ok")
	return nil
}

// RequestPasswordReset returns the raw reset token and true when the account exists.
// Callers must answer the same way in both cases.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) (string, bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", false, nil
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", false, nil
		}
		return "", false, apperr.Internal(err)
	}

	raw := make([]byte, resetTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", false, apperr.Internal(err)
	}
	token := hex.EncodeToString(raw)

	reset := &domain.PasswordReset{
		UserID:    u.ID,
		TokenHash: hashResetToken(token),
		ExpiresAt: s.now().Add(s.cfg.ResetTTL),
	}
	if err := s.resets.Create(ctx, reset); err != nil {
		return "", false, apperr.Internal(err)
	}

	s.audit.LogAuth(ctx, u.ID, domain.AuditActionPasswordResetRequest, nil)
	metrics.RecordAuth(domain.AuditActionPasswordResetRequest, "ok")
	return token, true, nil
}

// ResetPassword consumes a reset token. Unknown, expired and used tokens are all ErrInvalidResetToken.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := checkPassword(newPassword); err != nil {
		return err
	}
	if token == "" {
		return ErrInvalidResetToken
	}
	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}

	var userID int64
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		reset, err := s.resets.GetByHashForUpdate(ctx, hashResetToken(token))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrInvalidResetToken
			}
			return apperr.Internal(err)
		}
		now := s.now()
		if !reset.Usable(now) {
			return ErrInvalidResetToken
		}
		if err := s.users.UpdatePassword(ctx, reset.UserID, hash); err != nil {
			return apperr.Internal(err)
		}
		if err := s.resets.MarkUsed(ctx, reset.ID, now); err != nil {
			return apperr.Internal(err)
		}
		userID = reset.UserID
		return nil
	})
	if err != nil {
		metrics.RecordAuth(domain.AuditActionPasswordReset, outcome(err))
		return err
	}

	s.audit.LogAuth(ctx, userID, domain.AuditActionPasswordReset, nil)
	metrics.RecordAuth(domain.AuditActionPasswordReset, "ok")
	return nil
}

// outcome labels a failed event by its error code.
func outcome(err error) string {
	if e, ok := apperr.As(err); ok {
		return e.Code
	}
	return "internal"
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// UpdateProfile applies the enumerated patch. activeTheme follows the same ownership rule as the shop.
func (s *AccountService) UpdateProfile(ctx context.Context, userID int64, patch ProfilePatch) (*domain.User, error) {
	var updated *domain.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrUserNotFound
			}
			return apperr.Internal(err)
		}

		if patch.FirstName != nil {
			u.FirstName = strings.TrimSpace(*patch.FirstName)
		}
		if patch.LastName != nil {
			u.LastName = strings.TrimSpace(*patch.LastName)
		}
		if patch.Email != nil {
			email := strings.TrimSpace(*patch.Email)
			if err := s.checkEmail(email); err != nil {
				return err
			}
			if email != u.Email {
				taken, err := s.users.EmailExists(ctx, email, u.ID)
				if err != nil {
					return apperr.Internal(err)
				}
				if taken {
					return ErrDuplicateEmail
				}
				u.Email = email
			}
		}
		if patch.ActiveTheme != nil {
			if err := activateTheme(u, *patch.ActiveTheme); err != nil {
				return err
			}
		}

		if err := s.users.UpdateProfile(ctx, u); err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				return ErrDuplicateEmail
			}
			return apperr.Internal(err)
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.LogAuth(ctx, userID, domain.AuditActionProfileUpdate, nil)
	return updated, nil
}
