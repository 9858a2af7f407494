package account

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name           string `json:"name" gorm:"not null"`
	Email          string `json:"email" gorm:"uniqueIndex;not null"`
	Password       string `json:"-"`
	IsVerified     bool   `json:"is_verified" gorm:"default:false"`
	OAuthProviders string `json:"-" gorm:"size:255"`
	GoogleID       string `json:"-" gorm:"index"`
	GithubID       string `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// BeforeSave hashes the password whenever a plaintext value is present.
// Callers store plaintext and the hook owns hashing; nothing outside this
// package touches bcrypt for user passwords.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Password == "" || strings.HasPrefix(u.Password, "$2") {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

func (u *User) HasPassword() bool {
	return u.Password != ""
}

// Providers splits the stored provider tag list.
func (u *User) Providers() []string {
	if u.OAuthProviders == "" {
		return []string{}
	}
	return strings.Split(u.OAuthProviders, ",")
}

func (u *User) hasProvider(provider string) bool {
	for _, p := range u.Providers() {
		if p == provider {
			return true
		}
	}
	return false
}

// Response is the wire shape of a user. Password material never appears.
type Response struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	IsVerified     bool      `json:"isVerified"`
	OAuthProviders []string  `json:"oauthProviders"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (u *User) ToResponse() Response {
	return Response{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		IsVerified:     u.IsVerified,
		OAuthProviders: u.Providers(),
		CreatedAt:      u.CreatedAt,
	}
}
