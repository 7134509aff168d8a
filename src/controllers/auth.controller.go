package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"sltourism/src/models"
	"sltourism/src/store"
	"sltourism/src/types"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// TokenIssuer signs a session token for a user. Supplied by the middlewares
// package to keep the import graph one-way.
type TokenIssuer func(user *models.AdminUser) (string, error)

func readUsers(ctx context.Context, kv store.KeyValue) ([]models.AdminUser, error) {
	var users []models.AdminUser
	if _, err := store.ReadJSON(ctx, kv, store.KeyUsers, &users); err != nil && !errors.Is(err, store.ErrMalformed) {
		return nil, err
	}
	return users, nil
}

// FindUser looks an admin up by email, case-insensitively. A missing user is
// (nil, nil).
func FindUser(ctx context.Context, kv store.KeyValue, email string) (*models.AdminUser, error) {
	users, err := readUsers(ctx, kv)
	if err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for i := range users {
		if strings.ToLower(users[i].Email) == email {
			return &users[i], nil
		}
	}
	return nil, nil
}

// SeedAdmin creates the admin account when no user with that email exists.
func SeedAdmin(ctx context.Context, kv store.KeyValue, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}
	users, err := readUsers(ctx, kv)
	if err != nil {
		return err
	}
	for _, u := range users {
		if strings.ToLower(u.Email) == email {
			return nil
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	users = append(users, models.AdminUser{
		Email:        email,
		Name:         "Administrator",
		Role:         "admin",
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	})
	log.Printf("[auth] Seeded admin %s\n", email)
	return store.WriteJSON(ctx, kv, store.KeyUsers, users)
}

// AuthLogin checks the credentials, records the session in `currentUser`
// and returns a signed token.
func AuthLogin(ctx *gin.Context, issue TokenIssuer) (token *string, status int, err error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	kv := store.GetKeyValue()
	user, err := FindUser(ctx, kv, body.Email)
	if err != nil {
		log.Printf("[auth] Could not read users: %s\n", err.Error())
		return nil, http.StatusInternalServerError, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)) != nil {
		return nil, http.StatusUnauthorized, ErrInvalidCredentials
	}

	jwt, err := issue(user)
	if err != nil {
		log.Printf("[auth] Could not sign token: %s\n", err.Error())
		return nil, http.StatusInternalServerError, err
	}
	if err := store.WriteJSON(ctx, kv, store.KeyCurrentUser, user.Public()); err != nil {
		log.Printf("[auth] Could not write currentUser: %s\n", err.Error())
	}
	return &jwt, http.StatusOK, nil
}
