package account

import (
	"errors"
	"fmt"
	"strings"

	"github.com/codetube-labs/codetube/services/logging"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Store struct {
	db     *gorm.DB
	logger *logging.Service
}

func NewStore(db *gorm.DB, logger *logging.Service) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Store) FindByEmail(email string) (*User, error) {
	var user User
	err := s.db.Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (s *Store) FindByID(id uint) (*User, error) {
	var user User
	err := s.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (s *Store) Create(user *User) error {
	user.Email = NormalizeEmail(user.Email)
	if err := s.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created",
		zap.Uint("user_id", user.ID),
		zap.String("email", user.Email))
	return nil
}

func (s *Store) Save(user *User) error {
	if err := s.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// MarkVerified flips isVerified on the matching user. Deliberately a direct
// update-by-email; it is not transactionally linked to code consumption.
func (s *Store) MarkVerified(email string) error {
	res := s.db.Model(&User{}).
		Where("email = ?", NormalizeEmail(email)).
		Update("is_verified", true)
	if res.Error != nil {
		return fmt.Errorf("failed to mark user verified: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}

	s.logger.Info("user marked verified", zap.String("email", NormalizeEmail(email)))
	return nil
}

// Authenticate looks a user up and compares the password inside the store.
// A missing user, a passwordless account and a wrong password are all the
// same ErrInvalidCredentials to the caller.
func (s *Store) Authenticate(email, password string) (*User, error) {
	user, err := s.FindByEmail(email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logger.Warn("password verification failed", zap.String("email", user.Email))
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// LinkProvider attaches an OAuth identity to the user. Linked accounts are
// verified unconditionally; the provider already checked the mailbox.
func (s *Store) LinkProvider(user *User, provider, externalID string) error {
	switch provider {
	case "google":
		user.GoogleID = externalID
	case "github":
		user.GithubID = externalID
	default:
		return fmt.Errorf("unknown oauth provider: %s", provider)
	}

	if !user.hasProvider(provider) {
		providers := append(user.Providers(), provider)
		user.OAuthProviders = strings.Join(providers, ",")
	}
	user.IsVerified = true

	return s.Save(user)
}
