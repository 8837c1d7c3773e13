//go:build !integration

package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"smartCampaign/domain"
	"smartCampaign/pkg/utils"

	"github.com/go-playground/validator/v10"
)

func init() {
	utils.InitJWT("test-secret")
}

// ---- fakes ----

type fakeUserRepo struct {
	users  map[uint]domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]domain.User), nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uint) (domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, errors.New("user not found")
	}
	return u, nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, errors.New("user not found")
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, errors.New("user not found")
}

func (f *fakeUserRepo) FindAll(ctx context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

type fakeSessionRepo struct {
	tokens map[string]string // token -> userID
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{tokens: make(map[string]string)}
}

func (f *fakeSessionRepo) StoreToken(ctx context.Context, userID, token, ipAddress, userAgent string, ttl time.Duration) error {
	f.tokens[token] = userID
	return nil
}

func (f *fakeSessionRepo) ValidateToken(ctx context.Context, token string) (string, error) {
	userID, ok := f.tokens[token]
	if !ok {
		return "", errors.New("token not found or expired")
	}
	return userID, nil
}

func (f *fakeSessionRepo) DeleteToken(ctx context.Context, userID, token string) error {
	delete(f.tokens, token)
	return nil
}

type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) SendEmail(toName, toEmail, subject, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, subject)
	return nil
}

type fakeRecorder struct {
	visits []uint
	err    error
}

func (f *fakeRecorder) RecordVisit(ctx context.Context, userID uint) error {
	if f.err != nil {
		return f.err
	}
	f.visits = append(f.visits, userID)
	return nil
}

type fixture struct {
	userRepo    *fakeUserRepo
	sessionRepo *fakeSessionRepo
	notifier    *fakeNotifier
	recorder    *fakeRecorder
	svc         *userService
}

func newFixture() *fixture {
	f := &fixture{
		userRepo:    newFakeUserRepo(),
		sessionRepo: newFakeSessionRepo(),
		notifier:    &fakeNotifier{},
		recorder:    &fakeRecorder{},
	}
	f.svc = NewUserService(f.userRepo, f.sessionRepo, f.notifier, f.recorder, validator.New(), "Admin", "admin@example.com")
	return f
}

// ---- register ----

func TestRegisterCreatesUserWithInitialActivity(t *testing.T) {
	f := newFixture()

	created, err := f.svc.Register(context.Background(), &domain.User{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if created.ID == 0 {
		t.Fatal("user was not assigned an ID")
	}
	if created.Role != RoleCustomer {
		t.Fatalf("role = %q, want %q", created.Role, RoleCustomer)
	}
	if created.Password != "" {
		t.Fatal("password must be stripped from the response")
	}

	// Signup seeds the behavioural counters with one visit.
	if len(f.recorder.visits) != 1 || f.recorder.visits[0] != created.ID {
		t.Fatalf("visits = %v, want one visit for user %d", f.recorder.visits, created.ID)
	}

	stored, _ := f.userRepo.FindByID(context.Background(), created.ID)
	if stored.Password == "secret123" {
		t.Fatal("password must be stored hashed")
	}
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cases := []domain.User{
		{Username: "bob", Email: "not-an-email", Password: "secret123"},
		{Username: "bob", Email: "bob@example.com", Password: "short"},
		{Username: "", Email: "bob@example.com", Password: "secret123"},
	}
	for _, u := range cases {
		if _, err := f.svc.Register(ctx, &u); err == nil {
			t.Fatalf("Register(%+v) should fail", u)
		}
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, &domain.User{Username: "carol", Email: "carol@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("first register returned error: %v", err)
	}

	if _, err := f.svc.Register(ctx, &domain.User{Username: "carol", Email: "other@example.com", Password: "secret123"}); err == nil {
		t.Fatal("duplicate username should be rejected")
	}
	if _, err := f.svc.Register(ctx, &domain.User{Username: "carol2", Email: "carol@example.com", Password: "secret123"}); err == nil {
		t.Fatal("duplicate email should be rejected")
	}
}

// ---- login / logout ----

func TestLoginIssuesTokenAndRecordsVisit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.Register(ctx, &domain.User{Username: "dave", Email: "dave@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	token, loggedIn, err := f.svc.Login(ctx, "dave", "secret123", "127.0.0.1", "go-test")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token == "" {
		t.Fatal("no token issued")
	}
	if loggedIn.ID != created.ID {
		t.Fatalf("logged in user = %d, want %d", loggedIn.ID, created.ID)
	}

	userID, err := f.svc.ValidateTokenFromRedis(ctx, token)
	if err != nil {
		t.Fatalf("issued token did not validate: %v", err)
	}
	if userID == "" {
		t.Fatal("validated token returned empty user ID")
	}

	// One visit from signup, one from login.
	if len(f.recorder.visits) != 2 {
		t.Fatalf("visits = %v, want two", f.recorder.visits)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, &domain.User{Username: "erin", Email: "erin@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if _, _, err := f.svc.Login(ctx, "erin", "wrong-password", "", ""); err == nil {
		t.Fatal("Login with wrong password should fail")
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, _ := f.svc.Register(ctx, &domain.User{Username: "frank", Email: "frank@example.com", Password: "secret123"})
	token, _, err := f.svc.Login(ctx, "frank", "secret123", "", "")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if err := f.svc.Logout(ctx, created.ID, token); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}

	if _, err := f.svc.ValidateTokenFromRedis(ctx, token); err == nil {
		t.Fatal("token must be invalid after logout")
	}
}

func TestGetAllUsersStripsPasswords(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.svc.Register(ctx, &domain.User{Username: "gina", Email: "gina@example.com", Password: "secret123"})

	users, err := f.svc.GetAllUsers(ctx)
	if err != nil {
		t.Fatalf("GetAllUsers returned error: %v", err)
	}
	for _, u := range users {
		if u.Password != "" {
			t.Fatalf("user %d still carries a password hash", u.ID)
		}
	}
}
