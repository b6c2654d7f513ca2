package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/auth-service/internal/apperror"
	"github.com/sakif/auth-service/internal/auth"
	"github.com/sakif/auth-service/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeUserRepo is an in-memory implementation of repository.UserRepository.
// Using a fake (not a mock framework) keeps tests dependency-free and easy
// to read — you can see exactly what the fake does.
type fakeUserRepo struct {
	byEmail map[string]*model.User
	byID    map[string]*model.User
	nextID  int
	// set to a non-nil error to simulate a database failure
	createErr error
	getErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*model.User),
		byID:    make(map[string]*model.User),
		nextID:  1,
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	// Same conflict signal as the real store's UNIQUE constraint
	if _, exists := f.byEmail[user.Email]; exists {
		return apperror.Conflict("email already registered")
	}
	user.ID = "user-" + strconv.Itoa(f.nextID)
	f.nextID++
	copied := *user
	f.byEmail[user.Email] = &copied
	f.byID[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return u, nil
}

// newTestAuthService returns an AuthService wired with fake dependencies.
// bcrypt runs at MinCost so tests stay fast.
func newTestAuthService(t *testing.T, repo *fakeUserRepo) *AuthService {
	t.Helper()

	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	ps := auth.NewPasswordServiceForTest(bcrypt.MinCost)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewAuthService(repo, ts, ps, logger)
}

// registerTestUser registers a user and fails the test on error.
func registerTestUser(t *testing.T, svc *AuthService, name, email, password string) *model.User {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterInput{
		Name: name, Email: email, Password: password,
	})
	if err != nil {
		t.Fatalf("Register(%q) error = %v", email, err)
	}
	return user
}

// =========================================================================
// REGISTER TESTS
// =========================================================================

func TestRegister_Success(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())

	user := registerTestUser(t, svc, "Ada", "ada@x.com", "secret1")

	if user.ID == "" {
		t.Error("Register() did not assign an ID")
	}
	if user.Email != "ada@x.com" {
		t.Errorf("Email = %q, want %q", user.Email, "ada@x.com")
	}
	if user.PasswordHash == "" || user.PasswordHash == "secret1" {
		t.Error("Register() must store a hash, never the plaintext")
	}
}

func TestRegister_NormalizesEmailAndTrimsName(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())

	user := registerTestUser(t, svc, "  Ada  ", " ADA@X.com ", "secret1")

	if user.Email != "ada@x.com" {
		t.Errorf("Email = %q, want normalized %q", user.Email, "ada@x.com")
	}
	if user.Name != "Ada" {
		t.Errorf("Name = %q, want trimmed %q", user.Name, "Ada")
	}
}

func TestRegister_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"missing name", RegisterInput{Email: "a@x.com", Password: "p"}},
		{"missing email", RegisterInput{Name: "Ada", Password: "p"}},
		{"missing password", RegisterInput{Name: "Ada", Email: "a@x.com"}},
		{"whitespace-only name", RegisterInput{Name: "   ", Email: "a@x.com", Password: "p"}},
		{"whitespace-only email", RegisterInput{Name: "Ada", Email: "   ", Password: "p"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAuthService(t, newFakeUserRepo())

			_, err := svc.Register(context.Background(), tt.input)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Register() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRegister_DuplicateEmailAnyCasing(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())
	registerTestUser(t, svc, "Ada", "ada@x.com", "secret1")

	// Same address with different casing and surrounding whitespace
	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "Impostor", Email: "  Ada@X.COM ", Password: "other",
	})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Register() error = %v, want ErrConflict", err)
	}
}

func TestRegister_RepositoryError(t *testing.T) {
	repo := newFakeUserRepo()
	repo.createErr = errors.New("database is on fire")
	svc := newTestAuthService(t, repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "Ada", Email: "ada@x.com", Password: "secret1",
	})
	if err == nil {
		t.Fatal("Register() should propagate repository errors")
	}
	if errors.Is(err, apperror.ErrConflict) || errors.Is(err, apperror.ErrValidation) {
		t.Errorf("unexpected client-facing error kind: %v", err)
	}
}

// =========================================================================
// LOGIN TESTS
// =========================================================================

func TestLogin_Success(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())
	registered := registerTestUser(t, svc, "Ada", " ADA@X.com ", "secret1")

	result, err := svc.Login(context.Background(), LoginInput{
		Email: "ada@x.com", Password: "secret1",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if result.Token == "" {
		t.Fatal("Login() returned empty token")
	}
	if result.User.ID != registered.ID {
		t.Errorf("User.ID = %q, want %q", result.User.ID, registered.ID)
	}
	if result.User.Email != "ada@x.com" {
		t.Errorf("User.Email = %q, want %q", result.User.Email, "ada@x.com")
	}
	if result.TTL != auth.SessionTTL {
		t.Errorf("TTL = %v, want %v", result.TTL, auth.SessionTTL)
	}
}

func TestLogin_RememberExtendsTTL(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())
	registerTestUser(t, svc, "Ada", "ada@x.com", "secret1")

	result, err := svc.Login(context.Background(), LoginInput{
		Email: "ada@x.com", Password: "secret1", Remember: true,
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.TTL != auth.RememberSessionTTL {
		t.Errorf("TTL = %v, want %v", result.TTL, auth.RememberSessionTTL)
	}
}

func TestLogin_TokenCarriesIdentityClaims(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())
	registered := registerTestUser(t, svc, "Ada", "ada@x.com", "secret1")

	result, err := svc.Login(context.Background(), LoginInput{
		Email: "ada@x.com", Password: "secret1",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	ts, _ := auth.NewTokenService("test-secret-at-least-16-chars!!")
	id, err := ts.Validate(result.Token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	want := auth.Identity{ID: registered.ID, Name: "Ada", Email: "ada@x.com"}
	if id != want {
		t.Errorf("token identity = %+v, want %+v", id, want)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())

	for _, in := range []LoginInput{
		{Password: "secret1"},
		{Email: "ada@x.com"},
		{},
	} {
		if _, err := svc.Login(context.Background(), in); !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Login(%+v) error = %v, want ErrValidation", in, err)
		}
	}
}

// Unknown email and wrong password must be indistinguishable: identical
// error kind, identical message.
func TestLogin_UnknownEmailAndWrongPasswordLookTheSame(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())
	registerTestUser(t, svc, "Ada", "user@x.com", "secret1")

	_, errWrongPass := svc.Login(context.Background(), LoginInput{
		Email: "user@x.com", Password: "wrongpass",
	})
	_, errNoUser := svc.Login(context.Background(), LoginInput{
		Email: "nosuchuser@x.com", Password: "anypass",
	})

	if !errors.Is(errWrongPass, apperror.ErrUnauthorized) {
		t.Fatalf("wrong password error = %v, want ErrUnauthorized", errWrongPass)
	}
	if !errors.Is(errNoUser, apperror.ErrUnauthorized) {
		t.Fatalf("unknown email error = %v, want ErrUnauthorized", errNoUser)
	}

	var appErr1, appErr2 *apperror.AppError
	if !errors.As(errWrongPass, &appErr1) || !errors.As(errNoUser, &appErr2) {
		t.Fatal("both errors should be AppErrors")
	}
	if appErr1.Message != appErr2.Message {
		t.Errorf("messages differ: %q vs %q — this leaks which emails are registered",
			appErr1.Message, appErr2.Message)
	}
}

func TestLogin_RepositoryError(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	registerTestUser(t, svc, "Ada", "ada@x.com", "secret1")

	repo.getErr = errors.New("database is on fire")

	_, err := svc.Login(context.Background(), LoginInput{
		Email: "ada@x.com", Password: "secret1",
	})
	if err == nil {
		t.Fatal("Login() should propagate repository errors")
	}
	// A store failure must NOT look like bad credentials
	if errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("store failure mapped to ErrUnauthorized: %v", err)
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ada@x.com", "ada@x.com"},
		{" ADA@X.com ", "ada@x.com"},
		{"\tMixed@Case.COM\n", "mixed@case.com"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeEmail(tt.in); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
