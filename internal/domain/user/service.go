package user

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	netmail "net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"cfb-poll/internal/platform/mail"
)

const (
	minPasswordLen = 8
	resetTokenTTL  = time.Hour
)

var (
	ErrMissingFields      = errors.New("name, email and password are required")
	ErrEmailRequired      = errors.New("email is required")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch   = errors.New("password and confirm password do not match")
	ErrEmailTaken         = errors.New("email already registered")
	ErrEmailNotFound      = errors.New("no account found with this email address")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email address not verified")
	ErrAlreadyVerified    = errors.New("email address already verified")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidRole        = errors.New("invalid role")
	ErrUserNotFound       = errors.New("user not found")
)

// Notifier hands account emails off for delivery.
type Notifier interface {
	Notify(ctx context.Context, msg mail.Message) error
}

type Service struct {
	repo     Repository
	notifier Notifier
	appURL   string
	logger   *slog.Logger
	now      func() time.Time
	newToken func() string
}

func NewService(repo Repository, notifier Notifier, appURL string) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		appURL:   appURL,
		logger:   slog.Default(),
		now:      time.Now,
		newToken: uuid.NewString,
	}
}

func (s *Service) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CheckEmail normalizes an address and rejects anything that is not a bare
// local@domain.tld form.
func CheckEmail(email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", ErrEmailRequired
	}
	addr, err := netmail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return "", ErrInvalidEmail
	}
	at := strings.LastIndexByte(email, '@')
	if domain := email[at+1:]; !strings.Contains(domain, ".") || strings.HasSuffix(domain, ".") {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func CheckPassword(password string) error {
	if len(password) < minPasswordLen {
		return ErrWeakPassword
	}
	return nil
}

// Register creates an unverified account and queues the verification email.
// A failure to queue the email does not fail the registration; the user can
// ask for it again.
func (s *Service) Register(ctx context.Context, name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}
	if len(password) < minPasswordLen {
		return nil, ErrWeakPassword
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:              name,
		Email:             email,
		PasswordHash:      string(hash),
		Role:              RoleUser,
		VerificationToken: s.newToken(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	msg := mail.VerificationMessage(s.appURL, u.Email, u.Name, u.VerificationToken)
	if err := s.notifier.Notify(ctx, msg); err != nil {
		s.logger.WarnContext(ctx, "verification email not queued", "user_id", u.ID, "error", err)
	}
	return u, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmailNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.EmailVerified {
		return nil, ErrEmailNotVerified
	}
	return u, nil
}

func (s *Service) VerifyEmail(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	u, err := s.repo.GetByVerificationToken(ctx, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if u.EmailVerified {
		return u, ErrAlreadyVerified
	}
	if err := s.repo.MarkVerified(ctx, u.ID); err != nil {
		return nil, err
	}
	u.EmailVerified = true
	u.VerificationToken = ""
	return u, nil
}

func (s *Service) ResendVerification(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return ErrEmailRequired
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrEmailNotFound
	}
	if err != nil {
		return err
	}
	if u.EmailVerified {
		return ErrAlreadyVerified
	}

	token := s.newToken()
	if err := s.repo.SetVerificationToken(ctx, u.ID, token); err != nil {
		return err
	}
	return s.notifier.Notify(ctx, mail.VerificationMessage(s.appURL, u.Email, u.Name, token))
}

// ForgotPassword issues a one-hour reset token. Unknown addresses succeed
// silently so the endpoint cannot be used to discover accounts.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return ErrEmailRequired
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.InfoContext(ctx, "password reset for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	token := s.newToken()
	expires := s.now().UTC().Add(resetTokenTTL)
	if err := s.repo.SetResetToken(ctx, u.ID, token, &expires); err != nil {
		return err
	}
	if err := s.notifier.Notify(ctx, mail.PasswordResetMessage(s.appURL, u.Email, u.Name, token)); err != nil {
		if clearErr := s.repo.SetResetToken(ctx, u.ID, "", nil); clearErr != nil {
			s.logger.ErrorContext(ctx, "failed to clear reset token", "user_id", u.ID, "error", clearErr)
		}
		return err
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, token, password, confirm string) error {
	if token == "" {
		return ErrInvalidToken
	}
	if len(password) < minPasswordLen {
		return ErrWeakPassword
	}
	if password != confirm {
		return ErrPasswordMismatch
	}

	u, err := s.repo.GetByResetToken(ctx, token, s.now().UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return ErrInvalidToken
	}
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, u.ID, string(hash))
}

// ChangeEmail moves the account to a new address. The account drops back to
// unverified and a fresh verification email goes out; the returned flag is
// false when the address is unchanged.
func (s *Service) ChangeEmail(ctx context.Context, id int64, email string) (bool, error) {
	email, err := CheckEmail(email)
	if err != nil {
		return false, err
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if u.Email == email {
		return false, nil
	}

	if other, err := s.repo.GetByEmail(ctx, email); err == nil && other.ID != id {
		return false, ErrEmailTaken
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	token := s.newToken()
	if err := s.repo.UpdateEmail(ctx, id, email, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	if err := s.notifier.Notify(ctx, mail.VerificationMessage(s.appURL, email, u.Name, token)); err != nil {
		s.logger.WarnContext(ctx, "verification email not queued", "user_id", id, "error", err)
	}
	return true, nil
}

func (s *Service) ChangePassword(ctx context.Context, id int64, password string) error {
	if err := CheckPassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	err = s.repo.UpdatePassword(ctx, id, string(hash))
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	return err
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) UpdateRole(ctx context.Context, id int64, role string) error {
	if role != RoleAdmin && role != RoleUser {
		return ErrInvalidRole
	}
	err := s.repo.UpdateRole(ctx, id, role)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	return err
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}
