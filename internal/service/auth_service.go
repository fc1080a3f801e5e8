package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lhp-attendance-api/internal/clock"
	"github.com/noah-isme/lhp-attendance-api/internal/dto"
	"github.com/noah-isme/lhp-attendance-api/internal/models"
	"github.com/noah-isme/lhp-attendance-api/internal/repository"
)

// ErrInvalidCredentials indicates the email/password pair was rejected.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService authenticates accounts and issues tokens. Admins log in with a
// password; teachers log in with their registered email alone, and an account
// is created and linked to the teacher at first login.
type AuthService interface {
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
}

type authService struct {
	users     repository.UserRepository
	teachers  repository.TeacherRepository
	validator *validator.Validate
	secret    string
	tokenTTL  time.Duration
	clock     clock.Clock
	logger    zerolog.Logger
}

// NewAuthService constructs the auth service.
func NewAuthService(
	users repository.UserRepository,
	teachers repository.TeacherRepository,
	validate *validator.Validate,
	secret string,
	tokenTTL time.Duration,
	clk clock.Clock,
	logger zerolog.Logger,
) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}

	return &authService{
		users:     users,
		teachers:  teachers,
		validator: validate,
		secret:    secret,
		tokenTTL:  tokenTTL,
		clock:     clk,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	if payload.Password != "" {
		return s.adminLogin(ctx, email, payload.Password)
	}

	return s.teacherLogin(ctx, email)
}

func (s *authService) adminLogin(ctx context.Context, email, password string) (dto.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}

		return dto.LoginResponse{}, err
	}

	if !user.IsAdmin || !user.CheckPassword(password) {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	token, err := s.signToken(user)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("admin logged in")

	return dto.LoginResponse{
		Token:  token,
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role(),
	}, nil
}

func (s *authService) teacherLogin(ctx context.Context, email string) (dto.LoginResponse, error) {
	teacher, err := s.teachers.GetActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}

		return dto.LoginResponse{}, err
	}

	var user models.User
	if teacher.UserID != nil {
		user, err = s.users.GetByID(ctx, *teacher.UserID)
		if err != nil {
			return dto.LoginResponse{}, err
		}
	} else {
		// First login: create the account lazily and link it to the teacher.
		user = models.User{Name: teacher.Name, Email: teacher.Email, IsAdmin: false}
		if err := s.users.Create(ctx, &user); err != nil {
			return dto.LoginResponse{}, err
		}

		teacher.UserID = &user.ID
		if err := s.teachers.Update(ctx, &teacher); err != nil {
			return dto.LoginResponse{}, err
		}

		s.logger.Info().Uint("teacher_id", teacher.ID).Uint("user_id", user.ID).Msg("teacher account created")
	}

	token, err := s.signToken(user)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("teacher logged in")

	return dto.LoginResponse{
		Token:     token,
		UserID:    user.ID,
		Name:      user.Name,
		Role:      user.Role(),
		TeacherID: teacher.ID,
	}, nil
}

func (s *authService) signToken(user models.User) (string, error) {
	now := s.clock.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role(),
		"name": user.Name,
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
}
