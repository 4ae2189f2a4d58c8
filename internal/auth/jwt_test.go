package auth

import (
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	token, exp, err := Issue("user-1", "teacher", "classtrack", "secret", time.Hour)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Error("expiry should be in the future")
	}

	claims, err := Parse(token, "secret", "classtrack")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %s, want user-1", claims.UserID)
	}
	if claims.Role != "teacher" {
		t.Errorf("Role = %s, want teacher", claims.Role)
	}
}

func TestParseRejects(t *testing.T) {
	token, _, err := Issue("user-1", "student", "classtrack", "secret", time.Hour)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	tests := []struct {
		name   string
		token  string
		key    string
		issuer string
	}{
		{name: "wrong key", token: token, key: "other-secret", issuer: "classtrack"},
		{name: "issuer mismatch", token: token, key: "secret", issuer: "someone-else"},
		{name: "garbage token", token: "not.a.token", key: "secret", issuer: "classtrack"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.token, tt.key, tt.issuer); err == nil {
				t.Error("Parse() should have failed")
			}
		})
	}
}

func TestParseExpired(t *testing.T) {
	token, _, err := Issue("user-1", "student", "classtrack", "secret", -time.Minute)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	if _, err := Parse(token, "secret", "classtrack"); err == nil {
		t.Error("Parse() should reject an expired token")
	}
}
