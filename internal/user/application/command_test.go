package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wyfcoding/autopartsmall/internal/user/domain"
)

type fakeUserRepo struct {
	users  map[uint]*domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*domain.User{}, nextID: 1}
}

func (r *fakeUserRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *fakeUserRepo) Save(ctx context.Context, user *domain.User) error {
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) List(ctx context.Context, offset, limit int) ([]*domain.User, int64, error) {
	var out []*domain.User
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uint) error {
	delete(r.users, id)
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*domain.Session{}}
}

func (r *fakeSessionRepo) Save(ctx context.Context, session *domain.Session) error {
	r.sessions[session.Token] = session
	return nil
}

func (r *fakeSessionRepo) Get(ctx context.Context, token string) (*domain.Session, error) {
	return r.sessions[token], nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, token string) error {
	delete(r.sessions, token)
	return nil
}

type fakeCodeRepo struct {
	codes map[string]string
}

func newFakeCodeRepo() *fakeCodeRepo { return &fakeCodeRepo{codes: map[string]string{}} }

func (r *fakeCodeRepo) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	r.codes[email] = code
	return nil
}

func (r *fakeCodeRepo) Get(ctx context.Context, email string) (string, error) {
	return r.codes[email], nil
}

func (r *fakeCodeRepo) Delete(ctx context.Context, email string) error {
	delete(r.codes, email)
	return nil
}

type fakeSender struct {
	sent []string
}

func (s *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	s.sent = append(s.sent, to)
	return nil
}

func newTestCommandService() (*UserCommandService, *fakeUserRepo, *fakeSessionRepo, *fakeCodeRepo, *fakeSender) {
	userRepo := newFakeUserRepo()
	sessionRepo := newFakeSessionRepo()
	codeRepo := newFakeCodeRepo()
	mailSender := &fakeSender{}
	svc := NewUserCommandService(userRepo, sessionRepo, codeRepo, mailSender, 4, 24*time.Hour, 10*time.Minute)
	return svc, userRepo, sessionRepo, codeRepo, mailSender
}

func TestRegister(t *testing.T) {
	svc, repo, _, codes, mailSender := newTestCommandService()

	user, err := svc.Register(context.Background(), "jo@example.com", "Jo", "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == 0 {
		t.Error("user not persisted")
	}
	if user.Role != domain.RoleUser {
		t.Errorf("role = %s, want USER", user.Role)
	}
	if user.PasswordHash == "secret1" || user.PasswordHash == "" {
		t.Error("password stored in plaintext or missing")
	}
	if len(repo.users) != 1 {
		t.Errorf("expected 1 stored user, got %d", len(repo.users))
	}
	if codes.codes["jo@example.com"] == "" || len(mailSender.sent) != 1 {
		t.Error("verification code not sent on registration")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _, _ := newTestCommandService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "jo@example.com", "Jo", "secret1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Register(ctx, "jo@example.com", "Jo2", "secret2"); !errors.Is(err, domain.ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _, _, _ := newTestCommandService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "", "Jo", "secret1"); err == nil {
		t.Error("expected error for missing email")
	}
	if _, err := svc.Register(ctx, "jo@example.com", "Jo", "short"); err == nil {
		t.Error("expected error for short password")
	}
}

func TestLogin(t *testing.T) {
	svc, _, sessions, _, _ := newTestCommandService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "jo@example.com", "Jo", "secret1")
	if err != nil {
		t.Fatal(err)
	}

	session, err := svc.Login(ctx, "jo@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.Token == "" || session.UserID != user.ID || session.Role != domain.RoleUser {
		t.Errorf("bad session: %+v", session)
	}
	if session.Expired(time.Now()) {
		t.Error("fresh session already expired")
	}
	if sessions.sessions[session.Token] == nil {
		t.Error("session not stored")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _, _, _ := newTestCommandService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "jo@example.com", "Jo", "secret1"); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Login(ctx, "jo@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	// 未注册邮箱返回同样的错误，不泄露账户是否存在
	if _, err := svc.Login(ctx, "nobody@example.com", "secret1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	svc, _, sessions, _, _ := newTestCommandService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "jo@example.com", "Jo", "secret1"); err != nil {
		t.Fatal(err)
	}
	session, err := svc.Login(ctx, "jo@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Logout(ctx, session.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if sessions.sessions[session.Token] != nil {
		t.Error("session survived logout")
	}
}

func TestVerifyEmail(t *testing.T) {
	svc, repo, _, codes, _ := newTestCommandService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "jo@example.com", "Jo", "secret1")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.VerifyEmail(ctx, "jo@example.com", "000000"); !errors.Is(err, domain.ErrInvalidVerifyCode) {
		t.Errorf("wrong code: expected ErrInvalidVerifyCode, got %v", err)
	}

	code := codes.codes["jo@example.com"]
	if err := svc.VerifyEmail(ctx, "jo@example.com", code); err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}

	stored, _ := repo.GetByID(ctx, user.ID)
	if !stored.EmailVerified {
		t.Error("email not marked verified")
	}
	if codes.codes["jo@example.com"] != "" {
		t.Error("used code not deleted")
	}
}

func TestChangePassword(t *testing.T) {
	svc, _, _, _, _ := newTestCommandService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "jo@example.com", "Jo", "secret1")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.ChangePassword(ctx, user.ID, "wrong", "newsecret"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.ChangePassword(ctx, user.ID, "secret1", "newsecret"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if _, err := svc.Login(ctx, "jo@example.com", "secret1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Error("old password still accepted")
	}
	if _, err := svc.Login(ctx, "jo@example.com", "newsecret"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

func TestChangeRole(t *testing.T) {
	svc, repo, _, _, _ := newTestCommandService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "jo@example.com", "Jo", "secret1")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.ChangeRole(ctx, user.ID, "SUPERUSER"); err == nil {
		t.Error("expected error for unknown role")
	}

	updated, err := svc.ChangeRole(ctx, user.ID, domain.RoleManager)
	if err != nil {
		t.Fatalf("ChangeRole: %v", err)
	}
	if updated.Role != domain.RoleManager {
		t.Errorf("role = %s, want MANAGER", updated.Role)
	}
	stored, _ := repo.GetByID(ctx, user.ID)
	if stored.Role != domain.RoleManager {
		t.Error("role change not persisted")
	}
}
