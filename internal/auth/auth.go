package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"complaints-backend/internal/model"
	"complaints-backend/internal/store"
)

// ErrInvalidCredentials covers both an unknown username and a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Cost is the bcrypt work factor for new hashes.
var Cost = 12

// AdminFinder is the slice of the store Authenticate needs.
type AdminFinder interface {
	AdminByUsername(ctx context.Context, username string) (model.Admin, error)
}

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), Cost)
	return string(b), err
}

func CheckPassword(hashed, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}

// Authenticate checks username and password against the stored admin
// accounts. Usernames match exactly.
func Authenticate(ctx context.Context, admins AdminFinder, username, password string) (model.Admin, error) {
	if username == "" || password == "" {
		return model.Admin{}, ErrInvalidCredentials
	}

	admin, err := admins.AdminByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return model.Admin{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.Admin{}, fmt.Errorf("load admin: %w", err)
	}

	if !CheckPassword(admin.PasswordHash, password) {
		return model.Admin{}, ErrInvalidCredentials
	}
	return admin, nil
}
