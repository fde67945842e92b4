package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"vidtube/internal/storage"
)

func validRegisterInput() RegisterInput {
	return RegisterInput{
		FullName: "Alice Doe",
		Username: "Alice",
		Email:    "Alice@X.com",
		Password: "P@ss1",
		Avatar:   storage.Object{Key: "media/a1", URL: "https://cdn/media/a1"},
	}
}

func TestUserService_Register(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)

	user, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("username must be lowercased, got %q", user.Username)
	}
	if user.Email != "alice@x.com" {
		t.Errorf("email must be normalized, got %q", user.Email)
	}
	if user.PasswordHash != "" || user.RefreshTokenHash != "" {
		t.Error("credential fields must be stripped from the returned user")
	}

	stored, err := repo.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get stored: %v", err)
	}
	if stored.PasswordHash == "" {
		t.Error("expected password hash persisted")
	}
	if stored.PasswordHash == "P@ss1" {
		t.Error("plaintext password must never be stored")
	}
}

func TestUserService_RegisterValidation(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"blank full name", func(in *RegisterInput) { in.FullName = "   " }},
		{"blank username", func(in *RegisterInput) { in.Username = "" }},
		{"blank email", func(in *RegisterInput) { in.Email = "  " }},
		{"blank password", func(in *RegisterInput) { in.Password = "" }},
		{"missing avatar", func(in *RegisterInput) { in.Avatar = storage.Object{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validRegisterInput()
			tc.mutate(&input)
			if _, err := svc.Register(context.Background(), input); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestUserService_RegisterConflict(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)

	if _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("first register: %v", err)
	}

	sameUsername := validRegisterInput()
	sameUsername.Email = "other@x.com"
	if _, err := svc.Register(context.Background(), sameUsername); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate username, got %v", err)
	}

	sameEmail := validRegisterInput()
	sameEmail.Username = "bob"
	if _, err := svc.Register(context.Background(), sameEmail); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate email, got %v", err)
	}
}

func TestUserService_Authenticate(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)
	if _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Username y email sirven como clave de búsqueda por igual.
	for _, login := range []string{"alice", "alice@x.com", "ALICE", "Alice@X.com"} {
		user, err := svc.Authenticate(context.Background(), login, "P@ss1")
		if err != nil {
			t.Fatalf("authenticate with %q: %v", login, err)
		}
		if user.PasswordHash != "" {
			t.Error("credential fields must be stripped")
		}
	}

	if _, err := svc.Authenticate(context.Background(), "alice", "p@ss1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("password check must be case-sensitive, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "nobody", "P@ss1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUserService_PasswordNotTrimmed(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)
	user, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// Una variante con espacios no es la misma contraseña.
	if _, err := svc.Authenticate(context.Background(), "alice", " P@ss1 "); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("padded password must not authenticate, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), user.ID, " P@ss1 ", "NewP@ss"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("padded old password must not pass the check, got %v", err)
	}

	// Y al revés: los espacios forman parte de la contraseña registrada.
	padded := validRegisterInput()
	padded.Username = "bob"
	padded.Email = "bob@x.com"
	padded.Password = " pad "
	if _, err := svc.Register(context.Background(), padded); err != nil {
		t.Fatalf("register padded: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "bob", " pad "); err != nil {
		t.Fatalf("exact padded password must authenticate: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "bob", "pad"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("trimmed variant must not authenticate, got %v", err)
	}
}

func TestUserService_ChangePassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)
	user, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.ChangePassword(context.Background(), user.ID, "wrong", "NewP@ss"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), user.ID, "P@ss1", "NewP@ss"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), "alice", "P@ss1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "alice", "NewP@ss"); err != nil {
		t.Fatalf("authenticate with new password: %v", err)
	}
}

func TestUserService_UpdateAccount(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)
	user, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.UpdateAccount(context.Background(), user.ID, "  ", "new@x.com"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	updated, err := svc.UpdateAccount(context.Background(), user.ID, "Alice Updated", "New@X.com")
	if err != nil {
		t.Fatalf("update account: %v", err)
	}
	if updated.FullName != "Alice Updated" || updated.Email != "new@x.com" {
		t.Errorf("unexpected update result: %+v", updated)
	}

	if _, err := svc.UpdateAccount(context.Background(), "ghost", "X", "x@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
