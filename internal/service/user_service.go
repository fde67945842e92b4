package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"vidtube/internal/domain"
	"vidtube/internal/repository"
	"vidtube/internal/storage"
)

// UserService coordina reglas de negocio para cuentas de usuario.
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
}

func NewUserService(logger *zap.Logger, users repository.UserRepository) *UserService {
	return &UserService{
		logger: logger,
		users:  users,
	}
}

type RegisterInput struct {
	FullName   string
	Username   string
	Email      string
	Password   string
	Avatar     storage.Object
	CoverImage storage.Object
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	fullName := strings.TrimSpace(input.FullName)
	username := strings.ToLower(strings.TrimSpace(input.Username))
	emailAddr := normalizeEmail(input.Email)

	switch {
	case fullName == "":
		return domain.User{}, fmt.Errorf("%w: full_name is required", ErrValidation)
	case username == "":
		return domain.User{}, fmt.Errorf("%w: username is required", ErrValidation)
	case emailAddr == "":
		return domain.User{}, fmt.Errorf("%w: email is required", ErrValidation)
	case strings.TrimSpace(input.Password) == "":
		return domain.User{}, fmt.Errorf("%w: password is required", ErrValidation)
	case input.Avatar.URL == "":
		return domain.User{}, fmt.Errorf("%w: avatar is required", ErrValidation)
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, username, emailAddr)
	if err != nil {
		return domain.User{}, err
	}
	if exists {
		return domain.User{}, fmt.Errorf("%w: username or email already taken", ErrConflict)
	}

	// La contraseña se hashea tal cual: el espacio alrededor es parte de ella.
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:            uuid.NewString(),
		Username:      username,
		Email:         emailAddr,
		FullName:      fullName,
		AvatarURL:     input.Avatar.URL,
		AvatarKey:     input.Avatar.Key,
		CoverImageURL: input.CoverImage.URL,
		CoverImageKey: input.CoverImage.Key,
		PasswordHash:  string(hashBytes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// El índice único respalda el pre-chequeo ante creaciones concurrentes.
		if repository.IsUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("%w: username or email already taken", ErrConflict)
		}
		return domain.User{}, err
	}

	return stripCredentials(user), nil
}

// Authenticate acepta username o email como clave de búsqueda.
func (s *UserService) Authenticate(ctx context.Context, login, password string) (domain.User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	if login == "" || strings.TrimSpace(password) == "" {
		return domain.User{}, fmt.Errorf("%w: username or email and password are required", ErrValidation)
	}

	user, err := s.users.GetByUsernameOrEmail(ctx, login)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, fmt.Errorf("%w: user", ErrNotFound)
		}
		return domain.User{}, err
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return stripCredentials(user), nil
}

// ChangePassword re-hashea y persiste la nueva contraseña. El caller debe
// revocar la sesión activa después: ese acople es un contrato explícito entre
// componentes, no un efecto implícito de este método.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if strings.TrimSpace(oldPassword) == "" || strings.TrimSpace(newPassword) == "" {
		return fmt.Errorf("%w: old and new password are required", ErrValidation)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: user", ErrNotFound)
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, string(hashBytes))
}

// UpdateAccount actualiza el allow-list de campos de perfil: full_name y email.
func (s *UserService) UpdateAccount(ctx context.Context, userID, fullName, email string) (domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	emailAddr := normalizeEmail(email)
	if fullName == "" || emailAddr == "" {
		return domain.User{}, fmt.Errorf("%w: full_name and email are required", ErrValidation)
	}

	user, err := s.users.UpdateAccount(ctx, userID, fullName, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, fmt.Errorf("%w: user", ErrNotFound)
		}
		if repository.IsUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("%w: email already taken", ErrConflict)
		}
		return domain.User{}, err
	}
	return stripCredentials(user), nil
}

func (s *UserService) GetByID(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, fmt.Errorf("%w: user", ErrNotFound)
		}
		return domain.User{}, err
	}
	return stripCredentials(user), nil
}

func stripCredentials(user domain.User) domain.User {
	user.PasswordHash = ""
	user.RefreshTokenHash = ""
	return user
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
