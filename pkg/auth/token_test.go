package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/launchpool/launchpool-api/pkg/domain"
)

func newTestCodec() *TokenCodec {
	return NewTokenCodec(TokenConfig{
		AccessSecret:  []byte("access-secret-for-tests"),
		RefreshSecret: []byte("refresh-secret-for-tests"),
		Issuer:        "test",
	})
}

func TestTokenCodec_AccessRoundTrip(t *testing.T) {
	codec := newTestCodec()
	user := &domain.User{ID: uuid.New(), Email: "alice@example.com"}

	token, err := codec.SignAccess(user)
	if err != nil {
		t.Fatalf("SignAccess() error = %v", err)
	}

	claims, err := codec.VerifyAccess(token)
	if err != nil {
		t.Fatalf("VerifyAccess() error = %v", err)
	}
	if claims.UserID != user.ID.String() {
		t.Errorf("UserID = %q, want %q", claims.UserID, user.ID)
	}
	if claims.Email != user.Email {
		t.Errorf("Email = %q, want %q", claims.Email, user.Email)
	}

	id, err := UserIDFromClaims(claims)
	if err != nil {
		t.Fatalf("UserIDFromClaims() error = %v", err)
	}
	if id != user.ID {
		t.Errorf("parsed id = %v, want %v", id, user.ID)
	}
}

func TestTokenCodec_RefreshRoundTrip(t *testing.T) {
	codec := newTestCodec()
	userID := uuid.New()

	token, err := codec.SignRefresh(userID)
	if err != nil {
		t.Fatalf("SignRefresh() error = %v", err)
	}

	claims, err := codec.VerifyRefresh(token)
	if err != nil {
		t.Fatalf("VerifyRefresh() error = %v", err)
	}
	if claims.UserID != userID.String() {
		t.Errorf("UserID = %q, want %q", claims.UserID, userID)
	}
	if claims.Email != "" {
		t.Errorf("refresh token must not carry an email, got %q", claims.Email)
	}
}

func TestTokenCodec_CrossKindRejection(t *testing.T) {
	codec := newTestCodec()
	user := &domain.User{ID: uuid.New(), Email: "alice@example.com"}

	access, err := codec.SignAccess(user)
	if err != nil {
		t.Fatalf("SignAccess() error = %v", err)
	}
	refresh, err := codec.SignRefresh(user.ID)
	if err != nil {
		t.Fatalf("SignRefresh() error = %v", err)
	}

	if _, err := codec.VerifyRefresh(access); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("access token accepted as refresh token, err = %v", err)
	}
	if _, err := codec.VerifyAccess(refresh); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("refresh token accepted as access token, err = %v", err)
	}
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	codec := newTestCodec()
	other := NewTokenCodec(TokenConfig{
		AccessSecret:  []byte("completely-different-secret"),
		RefreshSecret: []byte("another-different-secret"),
		Issuer:        "test",
	})

	token, err := codec.SignAccess(&domain.User{ID: uuid.New(), Email: "a@example.com"})
	if err != nil {
		t.Fatalf("SignAccess() error = %v", err)
	}
	if _, err := other.VerifyAccess(token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("token signed with a different secret verified, err = %v", err)
	}
}

func TestTokenCodec_Expired(t *testing.T) {
	codec := NewTokenCodec(TokenConfig{
		AccessSecret:  []byte("access-secret-for-tests"),
		RefreshSecret: []byte("refresh-secret-for-tests"),
		AccessTTL:     -time.Minute,
	})

	token, err := codec.SignAccess(&domain.User{ID: uuid.New(), Email: "a@example.com"})
	if err != nil {
		t.Fatalf("SignAccess() error = %v", err)
	}
	if _, err := codec.VerifyAccess(token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expired token verified, err = %v", err)
	}
}

func TestTokenCodec_Garbage(t *testing.T) {
	codec := newTestCodec()
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := codec.VerifyAccess(tok); !errors.Is(err, domain.ErrTokenInvalid) {
			t.Errorf("VerifyAccess(%q) err = %v, want ErrTokenInvalid", tok, err)
		}
	}
}

func TestTokenCodec_Decode(t *testing.T) {
	codec := newTestCodec()
	user := &domain.User{ID: uuid.New(), Email: "alice@example.com"}

	token, err := codec.SignAccess(user)
	if err != nil {
		t.Fatalf("SignAccess() error = %v", err)
	}

	claims := codec.Decode(token)
	if claims == nil {
		t.Fatal("Decode() returned nil for a well-formed token")
	}
	if claims.UserID != user.ID.String() {
		t.Errorf("UserID = %q, want %q", claims.UserID, user.ID)
	}
	if codec.Decode("not-a-token") != nil {
		t.Error("Decode() should return nil for malformed input")
	}
}

func TestTokenCodec_Defaults(t *testing.T) {
	codec := NewTokenCodec(TokenConfig{
		AccessSecret:  []byte("a"),
		RefreshSecret: []byte("b"),
	})
	if codec.AccessTTL() != DefaultAccessTokenTTL {
		t.Errorf("AccessTTL() = %v, want %v", codec.AccessTTL(), DefaultAccessTokenTTL)
	}
}
