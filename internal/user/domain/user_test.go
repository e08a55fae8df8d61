package domain

import (
	"testing"
	"time"
)

func TestRoleValid(t *testing.T) {
	for _, r := range []UserRole{RoleUser, RoleManager, RoleAdmin} {
		if !r.Valid() {
			t.Errorf("%s should be valid", r)
		}
	}
	if UserRole("ROOT").Valid() {
		t.Error("unknown role should be invalid")
	}
}

func TestRolePrivileged(t *testing.T) {
	if RoleUser.Privileged() {
		t.Error("USER should not be privileged")
	}
	if !RoleManager.Privileged() || !RoleAdmin.Privileged() {
		t.Error("MANAGER and ADMIN should be privileged")
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	session := &Session{ExpiresAt: now.Add(time.Hour)}
	if session.Expired(now) {
		t.Error("session should not be expired")
	}
	if !session.Expired(now.Add(2 * time.Hour)) {
		t.Error("session should be expired")
	}
}

func TestNewUser(t *testing.T) {
	user := NewUser("jo@example.com", "Jo", "hash")
	if user.Role != RoleUser {
		t.Errorf("new user role = %s, want USER", user.Role)
	}
	if user.EmailVerified {
		t.Error("new user should not be verified")
	}
}
