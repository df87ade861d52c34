package httpapi

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"cukuraja/backend/internal/domain"
	"cukuraja/backend/internal/store"
)

type userStoreStub struct {
	mu      sync.Mutex
	users   map[string]domain.UserAccount
	updates int
}

func (s *userStoreStub) GetUser(_ context.Context, username string) (*domain.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, exists := s.users[username]
	if !exists {
		return nil, store.ErrNotFound
	}
	dup := user
	return &dup, nil
}

func (s *userStoreStub) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := s.users[username]
	user.Password = password
	s.users[username] = user
	s.updates++
	return nil
}

func hashedUser(t *testing.T, username string, password string, role string, active bool) domain.UserAccount {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return domain.UserAccount{
		Username:  username,
		Password:  string(hash),
		Role:      role,
		Active:    active,
		CreatedAt: time.Now().UTC(),
	}
}

func TestAuthManagerUpgradesLegacyPlainPassword(t *testing.T) {
	users := &userStoreStub{
		users: map[string]domain.UserAccount{
			"admin": {
				Username:  "admin",
				Password:  "admin123",
				Role:      "admin",
				Active:    true,
				CreatedAt: time.Now().UTC(),
			},
		},
	}

	manager := NewAuthManager("test-secret", time.Hour, "427913", users)
	resp, err := manager.Login(context.Background(), domain.LoginRequest{
		Username: "Admin",
		Password: "admin123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.Role != "admin" {
		t.Fatalf("unexpected role %s", resp.Role)
	}

	if users.updates != 1 {
		t.Fatalf("expected one password upgrade write, got %d", users.updates)
	}
	stored := users.users["admin"].Password
	if stored == "admin123" {
		t.Fatalf("expected password to be upgraded from plain-text")
	}
	if !strings.HasPrefix(stored, "$2") {
		t.Fatalf("expected bcrypt password hash, got %s", stored)
	}
}

func TestLoginRejectsWrongPasswordAndInactiveAccount(t *testing.T) {
	users := &userStoreStub{
		users: map[string]domain.UserAccount{
			"kasir": hashedUser(t, "kasir", "kasir123", "kasir", true),
			"dedi":  hashedUser(t, "dedi", "capster123", "capster", false),
		},
	}
	manager := NewAuthManager("test-secret", time.Hour, "427913", users)

	if _, err := manager.Login(context.Background(), domain.LoginRequest{Username: "kasir", Password: "salah"}); err == nil {
		t.Fatalf("expected wrong password to fail")
	}
	if _, err := manager.Login(context.Background(), domain.LoginRequest{Username: "nobody", Password: "kasir123"}); err == nil {
		t.Fatalf("expected unknown user to fail")
	}
	if _, err := manager.Login(context.Background(), domain.LoginRequest{Username: "dedi", Password: "capster123"}); err == nil {
		t.Fatalf("expected inactive account to fail")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	users := &userStoreStub{
		users: map[string]domain.UserAccount{
			"kasir": hashedUser(t, "kasir", "kasir123", "kasir", true),
		},
	}
	manager := NewAuthManager("test-secret", time.Hour, "427913", users)

	resp, err := manager.Login(context.Background(), domain.LoginRequest{Username: "kasir", Password: "kasir123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	actor, err := manager.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if actor.Username != "kasir" || actor.Role != "kasir" {
		t.Fatalf("unexpected actor %+v", actor)
	}

	if _, err := manager.ParseToken(resp.AccessToken + "x"); err == nil {
		t.Fatalf("expected tampered token to fail")
	}

	other := NewAuthManager("different-secret", time.Hour, "427913", users)
	if _, err := other.ParseToken(resp.AccessToken); err == nil {
		t.Fatalf("expected token signed with other secret to fail")
	}
}

func TestOwnerPINIsHashedAndStillValidates(t *testing.T) {
	users := &userStoreStub{users: map[string]domain.UserAccount{}}
	manager := NewAuthManager("test-secret", time.Hour, "654329", users)

	if manager.ownerPIN == "654329" {
		t.Fatalf("expected owner pin to be stored as hash, got plain-text")
	}
	if !manager.ValidateOwnerPIN("654329") {
		t.Fatalf("expected owner pin validation to succeed")
	}
	if manager.ValidateOwnerPIN("111111") {
		t.Fatalf("expected wrong owner pin to fail")
	}
	if manager.ValidateOwnerPIN("") {
		t.Fatalf("expected empty owner pin to fail")
	}
}
