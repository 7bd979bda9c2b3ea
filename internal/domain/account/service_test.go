package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/hospitex/hospitex/internal/platform/auth"
	"github.com/hospitex/hospitex/internal/platform/mail"
)

// -- Mock Repository --

type mockUserRepo struct {
	users    map[uuid.UUID]*User
	emailErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*User)}
}

func (m *mockUserRepo) Create(_ context.Context, u *User) error {
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	if m.emailErr != nil {
		return nil, m.emailErr
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) Update(_ context.Context, u *User) error {
	m.users[u.ID] = u
	return nil
}

func newTestService() (*Service, *mockUserRepo, *mail.MockSender) {
	repo := newMockUserRepo()
	sender := &mail.MockSender{}
	mailer := mail.NewMailer(sender, mail.NewTemplateEngine(), zerolog.Nop())
	return NewService(repo, mailer), repo, sender
}

// -- Tests --

func TestSignUp(t *testing.T) {
	svc, repo, sender := newTestService()
	ctx := context.Background()

	u, err := svc.SignUp(ctx, "alice", "alice@x.com", "pw123456", RolePatient)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if u.ID == uuid.Nil {
		t.Error("expected user id to be assigned")
	}
	if u.Password == "pw123456" {
		t.Error("password stored in plaintext")
	}
	if !auth.CheckPassword(u.Password, "pw123456") {
		t.Error("stored hash does not verify")
	}
	if len(repo.users) != 1 {
		t.Errorf("expected 1 user, got %d", len(repo.users))
	}
	if calls := sender.Calls(); len(calls) != 1 || calls[0].Subject != "Welcome to HospiTex" {
		t.Errorf("expected welcome mail, got %+v", calls)
	}
}

func TestSignUpMissingFields(t *testing.T) {
	svc, repo, _ := newTestService()

	if _, err := svc.SignUp(context.Background(), "alice", "", "pw", RolePatient); err == nil {
		t.Fatal("expected error for missing email")
	}
	if len(repo.users) != 0 {
		t.Error("no user should be created")
	}
}

func TestSignUpInvalidRole(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.SignUp(context.Background(), "alice", "a@x.com", "pw", "Wizard"); err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "alice", "alice@x.com", "pw123456", RolePatient); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	_, err := svc.SignUp(ctx, "alice2", "alice@x.com", "other", RoleDoctor)
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Errorf("duplicate signup must not create a user, have %d", len(repo.users))
	}
}

func TestSignUpSurfacesLookupFailure(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.emailErr = errors.New("connection refused")

	_, err := svc.SignUp(context.Background(), "alice", "alice@x.com", "pw123456", RolePatient)
	if err == nil {
		t.Fatal("expected error when email lookup fails")
	}
	if errors.Is(err, ErrEmailTaken) {
		t.Fatalf("lookup failure must not masquerade as duplicate email: %v", err)
	}
	if len(repo.users) != 0 {
		t.Errorf("failed lookup must not create a user, have %d", len(repo.users))
	}
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.SignUp(ctx, "alice", "alice@x.com", "pw123456", RolePatient)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	u, err := svc.Login(ctx, "alice@x.com", "pw123456")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.ID != created.ID {
		t.Error("login returned a different user")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "alice", "alice@x.com", "pw123456", RolePatient); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := svc.Login(ctx, "alice@x.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Login(context.Background(), "nobody@x.com", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatal("expected ErrInvalidCredentials for unknown email")
	}
}

func TestVerifyAccountFlow(t *testing.T) {
	svc, repo, sender := newTestService()
	ctx := context.Background()

	u, err := svc.SignUp(ctx, "alice", "alice@x.com", "pw123456", RolePatient)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if err := svc.SendVerifyOTP(ctx, u.ID); err != nil {
		t.Fatalf("send verify otp: %v", err)
	}
	stored := repo.users[u.ID]
	if stored.VerifyOTP == nil || len(*stored.VerifyOTP) != 6 {
		t.Fatal("expected a 6-digit OTP stored on the user")
	}
	calls := sender.Calls()
	if calls[len(calls)-1].Subject != "Your Account Verification OTP" {
		t.Errorf("unexpected mail subject: %q", calls[len(calls)-1].Subject)
	}

	if err := svc.VerifyAccount(ctx, u.ID, "000000"); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP for wrong code, got %v", err)
	}

	if err := svc.VerifyAccount(ctx, u.ID, *stored.VerifyOTP); err != nil {
		t.Fatalf("verify account: %v", err)
	}
	if !repo.users[u.ID].IsAccountVerified {
		t.Error("expected account marked verified")
	}
	if repo.users[u.ID].VerifyOTP != nil {
		t.Error("expected OTP fields cleared after verification")
	}
}

func TestVerifyAccountExpiredOTP(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	u, err := svc.SignUp(ctx, "alice", "alice@x.com", "pw123456", RolePatient)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := svc.SendVerifyOTP(ctx, u.ID); err != nil {
		t.Fatalf("send verify otp: %v", err)
	}

	stale := time.Now().Add(-time.Minute)
	repo.users[u.ID].VerifyOTPExpireAt = &stale

	if err := svc.VerifyAccount(ctx, u.ID, *repo.users[u.ID].VerifyOTP); !errors.Is(err, ErrOTPExpired) {
		t.Fatalf("expected ErrOTPExpired, got %v", err)
	}
}

func TestResetPasswordFlow(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	u, err := svc.SignUp(ctx, "alice", "alice@x.com", "pw123456", RolePatient)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if err := svc.SendResetOTP(ctx, "alice@x.com"); err != nil {
		t.Fatalf("send reset otp: %v", err)
	}
	otp := *repo.users[u.ID].ResetOTP

	if err := svc.ResetPassword(ctx, "alice@x.com", otp, "newpass99"); err != nil {
		t.Fatalf("reset password: %v", err)
	}

	if _, err := svc.Login(ctx, "alice@x.com", "pw123456"); err == nil {
		t.Error("old password must no longer work")
	}
	if _, err := svc.Login(ctx, "alice@x.com", "newpass99"); err != nil {
		t.Errorf("new password should log in, got %v", err)
	}
}

func TestSendResetOTPUnknownEmail(t *testing.T) {
	svc, _, _ := newTestService()

	if err := svc.SendResetOTP(context.Background(), "nobody@x.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatal("expected ErrUserNotFound")
	}
}

func TestRoleOf(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	u, err := svc.SignUp(ctx, "doc", "doc@x.com", "pw123456", RoleDoctor)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	role, err := svc.RoleOf(ctx, u.ID)
	if err != nil {
		t.Fatalf("role of: %v", err)
	}
	if role != RoleDoctor {
		t.Errorf("expected Doctor, got %q", role)
	}

	if _, err := svc.RoleOf(ctx, uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Fatal("expected ErrUserNotFound for unknown id")
	}
}
