package main

import (
	"testing"

	"cukuraja/backend/internal/config"
)

func TestValidateSecurityConfigRejectsWeakValues(t *testing.T) {
	err := validateSecurityConfig(config.Config{AuthSecret: "short", OwnerPIN: "739154"})
	if err == nil {
		t.Fatalf("expected weak security config to be rejected")
	}
}

func TestValidateSecurityConfigRejectsWeakPINs(t *testing.T) {
	secret := "0123456789abcdef0123456789abcdef"
	for _, pin := range []string{"123456", "111111", "987654", "12345"} {
		if err := validateSecurityConfig(config.Config{AuthSecret: secret, OwnerPIN: pin}); err == nil {
			t.Fatalf("expected pin %q to be rejected", pin)
		}
	}
}

func TestValidateSecurityConfigAcceptsStrongValues(t *testing.T) {
	err := validateSecurityConfig(config.Config{AuthSecret: "0123456789abcdef0123456789abcdef", OwnerPIN: "739154"})
	if err != nil {
		t.Fatalf("expected strong config to pass, got %v", err)
	}
}
