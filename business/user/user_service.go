package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"smartCampaign/domain"
	"smartCampaign/pkg/logger"
	"smartCampaign/pkg/utils"

	"github.com/go-playground/validator/v10"
)

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
}

// SessionRepository stores issued tokens so they can be revoked before their
// JWT expiry.
type SessionRepository interface {
	StoreToken(ctx context.Context, userID, token, ipAddress, userAgent string, ttl time.Duration) error
	ValidateToken(ctx context.Context, token string) (string, error)
	DeleteToken(ctx context.Context, userID, token string) error
}

// NotificationRepository contract interface
type NotificationRepository interface {
	SendEmail(toName, toEmail, subject, message string) (err error)
}

// ActivityRecorder initializes and updates the behavioural counters that
// feed campaign targeting.
type ActivityRecorder interface {
	RecordVisit(ctx context.Context, userID uint) error
}

const sessionTTL = 24 * time.Hour

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type userService struct {
	userRepo    UserRepository
	sessionRepo SessionRepository
	notifRepo   NotificationRepository
	recorder    ActivityRecorder
	validate    *validator.Validate
	adminName   string
	adminEmail  string
}

func NewUserService(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	notifRepo NotificationRepository,
	recorder ActivityRecorder,
	validate *validator.Validate,
	adminName string,
	adminEmail string,
) *userService {
	return &userService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		notifRepo:   notifRepo,
		recorder:    recorder,
		validate:    validate,
		adminName:   adminName,
		adminEmail:  adminEmail,
	}
}

// Register creates the user together with its activity row. A fresh user
// starts with one recorded visit so the targeting features see total_visits=1.
func (s *userService) Register(ctx context.Context, user *domain.User) (domain.User, error) {
	if err := s.validate.Var(user.Email, "required,email"); err != nil {
		logger.Error("Invalid email format", err)
		return domain.User{}, errors.New("invalid email format")
	}

	if err := s.validate.Var(user.Password, "required,min=6"); err != nil {
		logger.Error("Invalid user password", err)
		return domain.User{}, errors.New("password must be at least 6 characters")
	}

	if user.Username == "" {
		return domain.User{}, errors.New("username is required")
	}

	existingUser, err := s.userRepo.FindByUsername(ctx, user.Username)
	if err == nil && existingUser.ID > 0 {
		logger.Error("Username already exists")
		return domain.User{}, errors.New("username already exists")
	}

	existingUser, err = s.userRepo.FindByEmail(ctx, user.Email)
	if err == nil && existingUser.ID > 0 {
		logger.Error("Email already exists")
		return domain.User{}, errors.New("email already exists")
	}

	passwordHash, err := utils.HashPassword(user.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return domain.User{}, errors.New("failed to hash password")
	}

	role := user.Role
	if role == "" {
		role = RoleCustomer
	}

	newUser := domain.User{
		Username: user.Username,
		Email:    user.Email,
		Password: string(passwordHash),
		Role:     role,
	}

	if err := s.userRepo.Create(ctx, &newUser); err != nil {
		logger.Error("Failed to create new user")
		return domain.User{}, err
	}

	if err := s.recorder.RecordVisit(ctx, newUser.ID); err != nil {
		logger.Error("Failed to initialize user activity", err)
		return domain.User{}, err
	}

	s.notify("New User Signup", fmt.Sprintf("User %s signed up.", newUser.Username))

	newUser.Password = ""
	return newUser, nil
}

func (s *userService) Login(ctx context.Context, username, password, ipAddress, userAgent string) (string, domain.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		logger.Error("Invalid user credentials", err)
		return "", domain.User{}, err
	}

	ok := utils.CheckPassword(password, user.Password)
	if !ok {
		logger.Error("User password incorrect")
		return "", domain.User{}, errors.New("incorrect password")
	}

	userIDStr := strconv.FormatUint(uint64(user.ID), 10)
	token, err := utils.GenerateJWT(userIDStr, user.Role)
	if err != nil {
		logger.Error("Failed to generate token", err)
		return "", domain.User{}, errors.New("failed to generate token")
	}

	if err := s.sessionRepo.StoreToken(ctx, userIDStr, token, ipAddress, userAgent, sessionTTL); err != nil {
		logger.Error("Failed to store session token", err)
		return "", domain.User{}, err
	}

	if err := s.recorder.RecordVisit(ctx, user.ID); err != nil {
		logger.Error("Failed to record login visit", err)
		return "", domain.User{}, err
	}

	s.notify("User Login", fmt.Sprintf("User %s logged in.", user.Username))

	user.Password = ""
	return token, user, nil
}

// ValidateTokenFromRedis is used by the auth middleware to reject revoked
// tokens.
func (s *userService) ValidateTokenFromRedis(ctx context.Context, token string) (string, error) {
	return s.sessionRepo.ValidateToken(ctx, token)
}

func (s *userService) Logout(ctx context.Context, userID uint, token string) error {
	userIDStr := strconv.FormatUint(uint64(userID), 10)

	if err := s.sessionRepo.DeleteToken(ctx, userIDStr, token); err != nil {
		logger.Error("Failed to delete session token", err)
		return err
	}

	return nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get user by ID", err)
		return domain.User{}, err
	}

	user.Password = ""
	return user, nil
}

// GetAllUsers retrieves all users
func (s *userService) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to get all users", err)
		return nil, err
	}

	for i := range users {
		users[i].Password = ""
	}

	return users, nil
}

func (s *userService) notify(subject, message string) {
	if s.notifRepo == nil || s.adminEmail == "" {
		return
	}

	if err := s.notifRepo.SendEmail(s.adminName, s.adminEmail, subject, message); err != nil {
		logger.Warn("Failed to send signup notification", err)
	}
}
