package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"instacampus/internal/entity"
	"instacampus/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

const sessionTTL = 24 * time.Hour

type SessionClaims struct {
	UserID int    `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	CreateVendorUser(ctx context.Context, user *entity.User, codeID int) (*entity.User, error)
	GetUserByID(ctx context.Context, id int) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateUser(ctx context.Context, user *entity.User) error
	ListUsersByRole(ctx context.Context, role string) ([]*entity.User, error)
}

type VendorCodeRepository interface {
	CreateCode(ctx context.Context, code *entity.VendorCode) (*entity.VendorCode, error)
	GetCode(ctx context.Context, code string) (*entity.VendorCode, error)
}

// UserService covers signup, login sessions, profile updates and vendor
// registration codes.
type UserService struct {
	userRepo  UserRepository
	codeRepo  VendorCodeRepository
	rdb       *redis.Client
	jwtSecret []byte
}

func NewUserService(userRepo UserRepository, codeRepo VendorCodeRepository, rdb *redis.Client, jwtSecret string) *UserService {
	return &UserService{
		userRepo:  userRepo,
		codeRepo:  codeRepo,
		rdb:       rdb,
		jwtSecret: []byte(jwtSecret),
	}
}

// Signup registers a user. Vendor roles must present a valid unused code of
// the matching vendor type; account creation and code consumption commit in
// one transaction, so a code lost to a concurrent signup leaves no account.
func (s *UserService) Signup(ctx context.Context, name, email, password, role, vendorCode string) (*entity.User, error) {
	if !entity.ValidRole(role) {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	var code *entity.VendorCode
	if entity.IsVendorRole(role) {
		var err error
		code, err = s.codeRepo.GetCode(ctx, vendorCode)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrInvalidVendorCode
			}
			return nil, err
		}
		if code.Used || !code.IsActive || code.VendorType != role || time.Now().After(code.ExpiresAt) {
			return nil, ErrInvalidVendorCode
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	newUser := &entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}

	var user *entity.User
	if code != nil {
		user, err = s.userRepo.CreateVendorUser(ctx, newUser, code.ID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidVendorCode
		}
	} else {
		user, err = s.userRepo.CreateUser(ctx, newUser)
	}
	if err != nil {
		logger.Error().Err(err).Msg("Error creating user")
		return nil, err
	}

	return user, nil
}

// Login checks the password and issues a signed 24h session token, mirrored
// in redis so logout can revoke it.
func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrWrongCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrWrongCredentials
	}

	claims := &SessionClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := tkn.SignedString(s.jwtSecret)
	if err != nil {
		return nil, "", err
	}

	if os.Getenv("ENV") != "test" {
		err = s.rdb.Set(ctx, sessionKey(user.ID), t, sessionTTL).Err()
		if err != nil {
			logger.Error().Err(err).Msgf("Error storing session for user %d", user.ID)
			return nil, "", err
		}
	}

	return user, t, nil
}

func (s *UserService) Logout(ctx context.Context, userID int) error {
	if os.Getenv("ENV") == "test" {
		return nil
	}
	return s.rdb.Del(ctx, sessionKey(userID)).Err()
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting user by ID %d", id)
		return nil, err
	}

	return user, nil
}

// UpdateProfile changes name and, when non-empty, rehashes the password. The
// caller clears the session cookie afterwards to force a re-login.
func (s *UserService) UpdateProfile(ctx context.Context, userID int, name, password string) (*entity.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		logger.Error().Err(err).Msgf("Error updating user %d", userID)
		return nil, err
	}

	if err := s.Logout(ctx, userID); err != nil {
		logger.Error().Err(err).Msgf("Error revoking session for user %d", userID)
	}

	return user, nil
}

func (s *UserService) ListVendorsByRole(ctx context.Context, role string) ([]*entity.User, error) {
	if !entity.IsVendorRole(role) {
		return nil, fmt.Errorf("unknown vendor role %q", role)
	}
	return s.userRepo.ListUsersByRole(ctx, role)
}

// CreateVendorCode issues a random 6-digit one-time registration code.
func (s *UserService) CreateVendorCode(ctx context.Context, adminID int, vendorType string, ttl time.Duration) (*entity.VendorCode, error) {
	if !entity.IsVendorRole(vendorType) {
		return nil, fmt.Errorf("unknown vendor role %q", vendorType)
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	code := &entity.VendorCode{
		Code:       fmt.Sprintf("%06d", rand.Intn(1000000)),
		VendorType: vendorType,
		CreatedBy:  adminID,
		ExpiresAt:  time.Now().Add(ttl),
	}

	created, err := s.codeRepo.CreateCode(ctx, code)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating vendor code")
		return nil, err
	}

	return created, nil
}

func sessionKey(userID int) string {
	return fmt.Sprintf("session:%d", userID)
}
