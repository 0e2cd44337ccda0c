package auth

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/launchpool/launchpool-api/pkg/domain"
)

// memUserStore is an in-memory UserStore for service tests. It mirrors the
// SQL repository's guard semantics: token consumption fails when the token
// no longer matches, last-login writes never move backwards.
type memUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (s *memUserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *memUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *memUserStore) GetByResetPasswordToken(_ context.Context, token string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ResetPasswordToken != nil && *u.ResetPasswordToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *memUserStore) List(_ context.Context) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memUserStore) UpdateProfile(_ context.Context, id uuid.UUID, upd domain.UserUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.PhoneNumber != nil {
		u.PhoneNumber = upd.PhoneNumber
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	u.UpdatedAt = time.Now()
	return nil
}

func (s *memUserStore) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if u.LastLoginAt == nil || u.LastLoginAt.Before(at) {
		u.LastLoginAt = &at
	}
	return nil
}

func (s *memUserStore) SetPassword(_ context.Context, id uuid.UUID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (s *memUserStore) SetEmailVerificationToken(_ context.Context, id uuid.UUID, token string, expires time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.EmailVerificationToken = &token
	u.EmailVerificationTokenExpires = &expires
	return nil
}

func (s *memUserStore) ConsumeEmailVerification(_ context.Context, id uuid.UUID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if u.EmailVerificationToken == nil || *u.EmailVerificationToken != token {
		return domain.ErrTokenInvalid
	}
	u.IsEmailVerified = true
	u.EmailVerificationToken = nil
	u.EmailVerificationTokenExpires = nil
	return nil
}

func (s *memUserStore) SetResetPasswordToken(_ context.Context, id uuid.UUID, token string, expires time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ResetPasswordToken = &token
	u.ResetPasswordTokenExpires = &expires
	return nil
}

func (s *memUserStore) ConsumeResetPasswordToken(_ context.Context, token, newHash string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ResetPasswordToken == nil || *u.ResetPasswordToken != token {
			continue
		}
		if u.ResetPasswordTokenExpires == nil || u.ResetPasswordTokenExpires.Before(time.Now()) {
			return uuid.Nil, domain.ErrTokenInvalid
		}
		u.PasswordHash = newHash
		u.ResetPasswordToken = nil
		u.ResetPasswordTokenExpires = nil
		return u.ID, nil
	}
	return uuid.Nil, domain.ErrTokenInvalid
}

func (s *memUserStore) SetTwoFactorSecret(_ context.Context, id uuid.UUID, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.TwoFactorSecret = &secret
	u.IsTwoFactorEnabled = false
	return nil
}

func (s *memUserStore) EnableTwoFactor(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsTwoFactorEnabled = true
	return nil
}

func (s *memUserStore) DisableTwoFactor(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.TwoFactorSecret = nil
	u.IsTwoFactorEnabled = false
	return nil
}

func (s *memUserStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

// memIdentityStore is an in-memory IdentityStore.
type memIdentityStore struct {
	mu         sync.Mutex
	identities []domain.ExternalIdentity
}

func newMemIdentityStore() *memIdentityStore {
	return &memIdentityStore{}
}

func (s *memIdentityStore) Create(_ context.Context, identity *domain.ExternalIdentity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identities = append(s.identities, *identity)
	return nil
}

func (s *memIdentityStore) GetByUserAndProvider(_ context.Context, userID uuid.UUID, provider domain.Provider) (*domain.ExternalIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.identities {
		if s.identities[i].UserID == userID && s.identities[i].Provider == provider {
			cp := s.identities[i]
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *memIdentityStore) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.ExternalIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.ExternalIdentity
	for _, id := range s.identities {
		if id.UserID == userID {
			out = append(out, id)
		}
	}
	return out, nil
}

// recordingNotifier captures pushed events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	UserID    uuid.UUID
	Event     string
	Broadcast bool
}

func (n *recordingNotifier) Notify(userID uuid.UUID, event string, _ any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{UserID: userID, Event: event})
}

func (n *recordingNotifier) Broadcast(event string, _ any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{Event: event, Broadcast: true})
}

func (n *recordingNotifier) has(event string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, e := range n.events {
		if e.Event == event {
			return true
		}
	}
	return false
}

// recordingMailer captures outbound mail for assertions.
type recordingMailer struct {
	mu            sync.Mutex
	verifications map[string]string // email -> code
	resets        map[string]string // email -> token
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{
		verifications: make(map[string]string),
		resets:        make(map[string]string),
	}
}

func (m *recordingMailer) SendVerificationEmail(to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verifications[to] = code
	return nil
}

func (m *recordingMailer) SendResetPasswordEmail(to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets[to] = token
	return nil
}

// testEnv bundles fully wired services over in-memory stores.
type testEnv struct {
	users      *memUserStore
	identities *memIdentityStore
	notifier   *recordingNotifier
	mailer     *recordingMailer
	codec      *TokenCodec
	accounts   *AccountService
	logins     *LoginService
	twoFactor  *TwoFactorManager
}

func newTestEnv() *testEnv {
	users := newMemUserStore()
	identities := newMemIdentityStore()
	notifier := &recordingNotifier{}
	mailer := newRecordingMailer()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	codec := NewTokenCodec(TokenConfig{
		AccessSecret:  []byte("access-secret-for-tests"),
		RefreshSecret: []byte("refresh-secret-for-tests"),
		Issuer:        "test",
	})
	verification := NewVerificationManager(VerificationConfig{}, users)
	twoFactor := NewTwoFactorManager(TwoFactorConfig{Issuer: "Test"}, users, notifier)
	accounts := NewAccountService(logger, users, verification, twoFactor, mailer, notifier)
	logins := NewLoginService(logger, accounts, users, identities, twoFactor, codec)

	return &testEnv{
		users:      users,
		identities: identities,
		notifier:   notifier,
		mailer:     mailer,
		codec:      codec,
		accounts:   accounts,
		logins:     logins,
		twoFactor:  twoFactor,
	}
}
