package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hospitex/hospitex/internal/platform/auth"
	"github.com/hospitex/hospitex/internal/platform/mail"
)

var (
	ErrEmailTaken         = errors.New("User already exists")
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrUserNotFound       = errors.New("User not found")
	ErrInvalidOTP         = errors.New("Invalid OTP")
	ErrOTPExpired         = errors.New("OTP expired")
)

type Service struct {
	users  UserRepository
	mailer *mail.Mailer
}

func NewService(users UserRepository, mailer *mail.Mailer) *Service {
	return &Service{users: users, mailer: mailer}
}

func (s *Service) SignUp(ctx context.Context, username, email, password, role string) (*User, error) {
	if username == "" || email == "" || password == "" || role == "" {
		return nil, fmt.Errorf("Enter all credentials")
	}
	if !validRoles[role] {
		return nil, fmt.Errorf("invalid role: %s", role)
	}
	// Repositories surface pgx.ErrNoRows for a free email; anything else is
	// a real failure, not a green light to register.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{Username: username, Email: email, Password: hashed, Role: role}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	_ = s.mailer.Send(ctx, "welcome", u.Email, map[string]string{"username": u.Username})
	return u, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("Enter credentials")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}

	_ = s.mailer.Send(ctx, "welcome-back", u.Email, map[string]string{"username": u.Username})
	return u, nil
}

// RoleOf reports the role of the given user. Other domains use this for
// role-restricted endpoints.
func (s *Service) RoleOf(ctx context.Context, id uuid.UUID) (string, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return "", ErrUserNotFound
	}
	return u.Role, nil
}

func (s *Service) SendVerifyOTP(ctx context.Context, userID uuid.UUID) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}

	otp, err := auth.GenerateOTP()
	if err != nil {
		return err
	}
	expireAt := time.Now().Add(auth.VerifyOTPTTL)
	u.VerifyOTP = &otp
	u.VerifyOTPExpireAt = &expireAt
	if err := s.users.Update(ctx, u); err != nil {
		return err
	}

	_ = s.mailer.Send(ctx, "verify-otp", u.Email, map[string]string{"username": u.Username, "otp": otp})
	return nil
}

func (s *Service) VerifyAccount(ctx context.Context, userID uuid.UUID, otp string) error {
	if otp == "" {
		return fmt.Errorf("OTP is required")
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}
	if u.VerifyOTP == nil || *u.VerifyOTP != otp {
		return ErrInvalidOTP
	}
	if u.VerifyOTPExpireAt == nil || u.VerifyOTPExpireAt.Before(time.Now()) {
		return ErrOTPExpired
	}

	u.IsAccountVerified = true
	u.VerifyOTP = nil
	u.VerifyOTPExpireAt = nil
	return s.users.Update(ctx, u)
}

func (s *Service) SendResetOTP(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("Email is required")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return ErrUserNotFound
	}

	otp, err := auth.GenerateOTP()
	if err != nil {
		return err
	}
	expireAt := time.Now().Add(auth.ResetOTPTTL)
	u.ResetOTP = &otp
	u.ResetOTPExpireAt = &expireAt
	if err := s.users.Update(ctx, u); err != nil {
		return err
	}

	_ = s.mailer.Send(ctx, "reset-otp", u.Email, map[string]string{"username": u.Username, "otp": otp})
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	if email == "" || otp == "" || newPassword == "" {
		return fmt.Errorf("Email, OTP and new password are required")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return ErrUserNotFound
	}
	if u.ResetOTP == nil || *u.ResetOTP != otp {
		return ErrInvalidOTP
	}
	if u.ResetOTPExpireAt == nil || u.ResetOTPExpireAt.Before(time.Now()) {
		return ErrOTPExpired
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	u.Password = hashed
	u.ResetOTP = nil
	u.ResetOTPExpireAt = nil
	return s.users.Update(ctx, u)
}
