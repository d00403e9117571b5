package realtime

import (
	"context"
	"crypto/rand"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ifor-lux/luxconsole/internal/constants"
)

const usersNode = "users"

// User is one end-user account record. The key it lives under in the
// database is carried as ID and never stored inside the record.
type User struct {
	ID             string `json:"-"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	ExpirationDate string `json:"expirationDate"`
	CreatedAt      string `json:"createdAt"`
	Device         string `json:"device"`
}

// Expired reports whether the account's expiration date has passed.
// Unparseable dates count as expired.
func (u User) Expired(now time.Time) bool {
	exp, err := time.Parse(time.RFC3339, u.ExpirationDate)
	if err != nil {
		return true
	}
	return now.After(exp)
}

// ValidateAccount checks the username and password rules shared by create
// and update.
func ValidateAccount(username, password string) error {
	if len(strings.TrimSpace(username)) < constants.MinUsernameLen {
		return fmt.Errorf("username must be at least %d characters", constants.MinUsernameLen)
	}
	if len(strings.TrimSpace(password)) < constants.MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters", constants.MinPasswordLen)
	}
	return nil
}

const passwordCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GeneratePassword produces a random alphanumeric account password.
func GeneratePassword() (string, error) {
	buf := make([]byte, constants.GeneratedPasswordLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}
	for i, b := range buf {
		buf[i] = passwordCharset[int(b)%len(passwordCharset)]
	}
	return string(buf), nil
}

// CreateUser stores a new account under a generated key. The account
// expires expirationDays from now.
func (c *Client) CreateUser(ctx context.Context, username, password string, expirationDays int) (*User, error) {
	if err := ValidateAccount(username, password); err != nil {
		return nil, err
	}
	if expirationDays <= 0 {
		return nil, fmt.Errorf("expiration days must be positive")
	}

	now := time.Now().UTC()
	user := User{
		Username:       strings.TrimSpace(username),
		Password:       strings.TrimSpace(password),
		ExpirationDate: now.AddDate(0, 0, expirationDays).Format(time.RFC3339),
		CreatedAt:      now.Format(time.RFC3339),
		Device:         "",
	}

	key, err := c.Push(ctx, usersNode, user)
	if err != nil {
		return nil, err
	}
	user.ID = key
	c.logger.Infof("created user %q (expires %s)", user.Username, user.ExpirationDate)
	return &user, nil
}

// ListUsers returns all accounts, newest first.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	records := make(map[string]User)
	if err := c.Get(ctx, usersNode, &records); err != nil {
		return nil, err
	}

	users := make([]User, 0, len(records))
	for id, u := range records {
		u.ID = id
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt > users[j].CreatedAt
	})
	return users, nil
}

// UpdateUser patches an existing account's credentials and expiration.
// Device assignment is owned by the client app and left alone.
func (c *Client) UpdateUser(ctx context.Context, id, username, password string, expiration time.Time) error {
	if id == "" {
		return fmt.Errorf("user id is required")
	}
	if err := ValidateAccount(username, password); err != nil {
		return err
	}
	return c.Update(ctx, usersNode+"/"+id, map[string]any{
		"username":       strings.TrimSpace(username),
		"password":       strings.TrimSpace(password),
		"expirationDate": expiration.UTC().Format(time.RFC3339),
	})
}

// DeleteUser removes an account record.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("user id is required")
	}
	return c.Delete(ctx, usersNode+"/"+id)
}
