package services

import (
	"errors"

	"github.com/nkhandel/bookstock/internal/models"
	"github.com/nkhandel/bookstock/internal/repositories"
	"github.com/nkhandel/bookstock/pkg/auth"
	"github.com/nkhandel/bookstock/pkg/validate"
)

// ErrInvalidCredentials is returned when the email or password does not
// match a known user. The two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

// RegisterInput is the request body for staff registration.
type RegisterInput struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
}

type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService() *AuthService {
	return &AuthService{users: repositories.NewUserRepository()}
}

// NewAuthServiceOn wires an explicit repository (tests).
func NewAuthServiceOn(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Login checks the credentials and issues a bearer token bound to the user.
// No token is issued on failure.
func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !auth.CheckPassword(user.Password, password) {
		return "", ErrInvalidCredentials
	}

	return auth.GenerateToken(user.ID, user.Email)
}

// Register validates in, hashes the password, and creates the user.
func (s *AuthService) Register(in RegisterInput) (models.User, FieldErrors, error) {
	fieldErrs := FieldErrors{}
	for field, msg := range validate.Struct(&in) {
		fieldErrs.add(field, msg)
	}
	if fieldErrs.Any() {
		return models.User{}, fieldErrs, nil
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, nil, err
	}

	user := models.User{Name: in.Name, Email: in.Email, Password: hash}
	if err := s.users.Create(&user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return models.User{}, FieldErrors{"email": {"The email has already been taken."}}, nil
		}
		return models.User{}, nil, err
	}

	return user, nil, nil
}

// User returns the account behind a verified token's user ID.
func (s *AuthService) User(id uint) (models.User, error) {
	return s.users.FindByID(id)
}
