package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"shopfront/internal/domain"
	applog "shopfront/internal/log"
	"shopfront/internal/notify"
	"shopfront/internal/repos"
	"shopfront/internal/validate"
)

var (
	ErrBadCreds     = errors.New("invalid email or password")
	ErrWeakPassword = errors.New("password must be 8-64 characters with upper and lower case letters, a digit and a symbol")
	ErrInvalidName  = errors.New("please enter your name")
	ErrResetInvalid = errors.New("reset link is invalid or has expired")
	ErrEmailTaken   = repos.ErrEmailTaken
)

type AuthService struct {
	Users     *repos.UserRepo
	Carts     *repos.CartRepo
	Commerce  *CommerceService
	Templates TemplateLookup
	Mailer    notify.Mailer
	ResetTTL  time.Duration
	Now       func() time.Time
}

func NewAuthService(users *repos.UserRepo, carts *repos.CartRepo, commerce *CommerceService) *AuthService {
	return &AuthService{Users: users, Carts: carts, Commerce: commerce, ResetTTL: time.Hour, Now: time.Now}
}

// Login binds the session to the user and folds carts the user left in
// earlier sessions into this one.
func (s *AuthService) Login(ctx context.Context, sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	if s.Carts != nil {
		touched, err := s.Carts.MergeForLogin(u.ID, sid)
		if err != nil {
			applog.Error(nil, "auth.cart.merge", err, map[string]any{"user_id": u.ID})
		}
		if s.Commerce != nil {
			for _, storeID := range touched {
				s.Commerce.Invalidate(ctx, storeID, sid)
			}
		}
	}
	return u, nil
}

// Register creates a customer account of the store and signs it in.
func (s *AuthService) Register(ctx context.Context, storeID, sid, name, email, password string) (*domain.User, error) {
	name, ok := validate.Name(name)
	if !ok {
		return nil, ErrInvalidName
	}
	email, ok = validate.Email(email)
	if !ok {
		return nil, ErrInvalidEmail
	}
	if !validate.Password(password) {
		return nil, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := domain.User{ID: uuid.NewString(), StoreID: storeID, Email: email, Name: name, Hash: string(hash), Role: "USER"}
	if err := s.Users.Create(u); err != nil {
		return nil, err
	}
	return s.Login(ctx, sid, email, password)
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// ForgotPassword mails a single-use reset link when the email belongs to an
// account. Unknown emails succeed silently so the form does not reveal
// which addresses are registered. link turns the token into a URL.
func (s *AuthService) ForgotPassword(ctx context.Context, store *domain.Store, email string, link func(token string) string) error {
	email, ok := validate.Email(email)
	if !ok {
		return ErrInvalidEmail
	}
	u, err := s.Users.ByEmail(email)
	if errors.Is(err, repos.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	token, err := newToken()
	if err != nil {
		return err
	}
	expires := repos.Timestamp(s.Now().Add(s.ResetTTL))
	if err := s.Users.SaveResetToken(hashToken(token), u.ID, expires); err != nil {
		return err
	}
	mailTemplate(ctx, s.Templates, s.Mailer, store.ID, notify.PasswordReset, u.Email, map[string]any{
		"Store": store, "Name": u.Name, "Link": link(token),
	})
	return nil
}

// ResetPassword consumes a reset token and sets the new password.
func (s *AuthService) ResetPassword(token, password string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrResetInvalid
	}
	if !validate.Password(password) {
		return ErrWeakPassword
	}
	userID, err := s.Users.ConsumeResetToken(hashToken(token), repos.Timestamp(s.Now()))
	if errors.Is(err, repos.ErrNotFound) {
		return ErrResetInvalid
	}
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.Users.SetPassword(userID, string(hash))
}
