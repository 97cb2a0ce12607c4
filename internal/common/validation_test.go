package common

import (
	"errors"
	"testing"
)

func TestValidatorCollectsMessages(t *testing.T) {
	v := NewValidator()
	v.Field("email", "not-an-email", Required, Email)
	v.Field("senha", "", Required)

	if !v.HasErrors() {
		t.Fatal("expected validation errors")
	}
	msgs := v.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %v", msgs)
	}
	if msgs[0] != "Email inválido" || msgs[1] != "Campo obrigatório" {
		t.Errorf("unexpected messages: %v", msgs)
	}
	if !errors.Is(v.Error(), ErrInvalidInput) {
		t.Errorf("combined error should wrap ErrInvalidInput, got %v", v.Error())
	}
}

func TestValidatorPasses(t *testing.T) {
	v := NewValidator()
	v.Field("email", "ana@example.com", Required, Email)
	if v.HasErrors() {
		t.Errorf("unexpected errors: %v", v.Messages())
	}
	if v.Error() != nil {
		t.Errorf("Error() = %v", v.Error())
	}
}

func TestPasswordCriteria(t *testing.T) {
	tests := []struct {
		password    string
		wantMissing int
	}{
		{"Senha@Forte1", 0},
		{"fraca", 4}, // short, no upper, no digit, no special
		{"SenhaForte1", 1},
		{"", 5},
	}
	for _, tt := range tests {
		if got := PasswordCriteria(tt.password); len(got) != tt.wantMissing {
			t.Errorf("PasswordCriteria(%q) = %v, want %d missing", tt.password, got, tt.wantMissing)
		}
	}
}

func TestUserMessage(t *testing.T) {
	err := NewAppError("QUOTA_EXCEEDED", "Limite diário atingido.", ErrQuotaExceeded)
	if got := UserMessage(err); got != "Limite diário atingido." {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(errors.New("boom")); got != "boom" {
		t.Errorf("UserMessage fallback = %q", got)
	}
}
