package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/launchpool/launchpool-api/pkg/domain"
)

func TestGenerateVerificationCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := generateVerificationCode()
		if err != nil {
			t.Fatalf("generateVerificationCode() error = %v", err)
		}
		if len(code) != verificationCodeLen {
			t.Errorf("code length = %d, want %d", len(code), verificationCodeLen)
		}
		for _, char := range code {
			if !strings.ContainsRune(verificationCodeChars, char) {
				t.Errorf("code contains invalid character: %c", char)
			}
		}
	}
}

func TestConfirmEmail(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	user, err := env.accounts.CreateUser(ctx, CreateUserParams{
		Email:     "alice@example.com",
		Password:  "long-enough-password",
		FirstName: "Alice",
		LastName:  "Smith",
	})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if user.IsEmailVerified {
		t.Fatal("new account must start unverified")
	}

	code := env.mailer.verifications["alice@example.com"]
	if code == "" {
		t.Fatal("no verification code was mailed")
	}

	t.Run("wrong code", func(t *testing.T) {
		_, err := env.accounts.ConfirmEmail(ctx, "alice@example.com", "WRONG1")
		if !errors.Is(err, domain.ErrTokenInvalid) {
			t.Errorf("err = %v, want ErrTokenInvalid", err)
		}
	})

	t.Run("correct code", func(t *testing.T) {
		verified, err := env.accounts.ConfirmEmail(ctx, "alice@example.com", code)
		if err != nil {
			t.Fatalf("ConfirmEmail() error = %v", err)
		}
		if !verified.IsEmailVerified {
			t.Error("account not marked verified")
		}
		if verified.EmailVerificationToken != nil {
			t.Error("verification token not cleared")
		}
		if !env.notifier.has("email_verified") {
			t.Error("email_verified event not pushed")
		}
	})

	t.Run("second use", func(t *testing.T) {
		_, err := env.accounts.ConfirmEmail(ctx, "alice@example.com", code)
		if !errors.Is(err, domain.ErrTokenInvalid) {
			t.Errorf("consumed code accepted again, err = %v", err)
		}
	})
}

func TestConfirmEmail_Expired(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	user, err := env.accounts.CreateUser(ctx, CreateUserParams{
		Email:     "bob@example.com",
		Password:  "long-enough-password",
		FirstName: "Bob",
		LastName:  "Jones",
	})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	// Push the stored expiry into the past.
	expired := time.Now().Add(-time.Second)
	code := env.mailer.verifications["bob@example.com"]
	if err := env.users.SetEmailVerificationToken(ctx, user.ID, code, expired); err != nil {
		t.Fatalf("SetEmailVerificationToken() error = %v", err)
	}

	if _, err := env.accounts.ConfirmEmail(ctx, "bob@example.com", code); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestResendVerification(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	if _, err := env.accounts.CreateUser(ctx, CreateUserParams{
		Email:     "carol@example.com",
		Password:  "long-enough-password",
		FirstName: "Carol",
		LastName:  "White",
	}); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	first := env.mailer.verifications["carol@example.com"]
	if err := env.accounts.ResendVerification(ctx, "carol@example.com"); err != nil {
		t.Fatalf("ResendVerification() error = %v", err)
	}
	second := env.mailer.verifications["carol@example.com"]
	if second == "" {
		t.Fatal("no code mailed on resend")
	}

	// The old code is replaced; only the latest one confirms.
	if first != second {
		if _, err := env.accounts.ConfirmEmail(ctx, "carol@example.com", first); !errors.Is(err, domain.ErrTokenInvalid) {
			t.Errorf("replaced code accepted, err = %v", err)
		}
	}
	if _, err := env.accounts.ConfirmEmail(ctx, "carol@example.com", second); err != nil {
		t.Errorf("latest code rejected: %v", err)
	}

	if err := env.accounts.ResendVerification(ctx, "carol@example.com"); !errors.Is(err, domain.ErrAlreadyVerified) {
		t.Errorf("resend after verification err = %v, want ErrAlreadyVerified", err)
	}
}

func TestPasswordReset(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	if _, err := env.accounts.CreateUser(ctx, CreateUserParams{
		Email:     "dave@example.com",
		Password:  "original-password",
		FirstName: "Dave",
		LastName:  "Brown",
	}); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if err := env.accounts.RequestPasswordReset(ctx, "dave@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset() error = %v", err)
	}
	token := env.mailer.resets["dave@example.com"]
	if token == "" {
		t.Fatal("no reset token was mailed")
	}

	if err := env.accounts.ResetPassword(ctx, token, "brand-new-password"); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}
	if !env.notifier.has("password_reset") {
		t.Error("password_reset event not pushed")
	}

	// Old password dead, new one live.
	if _, err := env.logins.Login(ctx, "dave@example.com", "original-password"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("old password still accepted, err = %v", err)
	}
	if _, err := env.logins.Login(ctx, "dave@example.com", "brand-new-password"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}

	// Single use.
	if err := env.accounts.ResetPassword(ctx, token, "yet-another-password"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("consumed reset token accepted again, err = %v", err)
	}
}

func TestPasswordReset_Expired(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	user, err := env.accounts.CreateUser(ctx, CreateUserParams{
		Email:     "erin@example.com",
		Password:  "original-password",
		FirstName: "Erin",
		LastName:  "Green",
	})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if err := env.users.SetResetPasswordToken(ctx, user.ID, "stale-token", time.Now().Add(-time.Second)); err != nil {
		t.Fatalf("SetResetPasswordToken() error = %v", err)
	}
	if err := env.accounts.ResetPassword(ctx, "stale-token", "brand-new-password"); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestPasswordReset_WeakReplacement(t *testing.T) {
	env := newTestEnv()
	if err := env.accounts.ResetPassword(context.Background(), "whatever", "short"); !errors.Is(err, domain.ErrWeakPassword) {
		t.Errorf("err = %v, want ErrWeakPassword", err)
	}
}
