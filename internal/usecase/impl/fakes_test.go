package impl

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"sync"
	"time"

	"synnapse/config"
	"synnapse/internal/domain/entity"
	domainerrors "synnapse/internal/domain/errors"
	"synnapse/internal/domain/repository"
	"synnapse/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Database.Timeouts.Query = time.Second
	cfg.Mail.SendTimeout = time.Second
	cfg.Auth.ResetTokenTTL = time.Hour

	return cfg
}

// memStore is an in-memory backend for every repository port. Transactions
// snapshot the maps and restore them on error.
type memStore struct {
	mu      sync.Mutex
	persons map[uuid.UUID]entity.Person
	perms   map[uuid.UUID]entity.Permissions
	tokens  map[string]entity.PasswordResetToken
	entries map[uuid.UUID]entity.Entry

	now func() time.Time
	ttl time.Duration

	// Injected failures
	findPersonErr     error
	updatePersonErr   error
	createPermsErr    error
	createTokenErr    error
	deleteExpiredErr  error
	deleteTokenCalls  int
	deleteExpiredRuns int
}

func newMemStore(now func() time.Time) *memStore {
	return &memStore{
		persons: make(map[uuid.UUID]entity.Person),
		perms:   make(map[uuid.UUID]entity.Permissions),
		tokens:  make(map[string]entity.PasswordResetToken),
		entries: make(map[uuid.UUID]entity.Entry),
		now:     now,
		ttl:     time.Hour,
	}
}

func (s *memStore) personCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.persons)
}

func (s *memStore) permsCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.perms)
}

func (s *memStore) permissionsOf(personID uuid.UUID) []entity.Permissions {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []entity.Permissions
	for _, p := range s.perms {
		if p.PersonID == personID {
			out = append(out, p)
		}
	}

	return out
}

func (s *memStore) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	s.mu.Lock()
	persons, perms := maps.Clone(s.persons), maps.Clone(s.perms)
	tokens, entries := maps.Clone(s.tokens), maps.Clone(s.entries)
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.persons, s.perms, s.tokens, s.entries = persons, perms, tokens, entries
		s.mu.Unlock()

		return err
	}

	return nil
}

func (s *memStore) PersonRepo() repository.PersonRepository           { return &memPersons{s} }
func (s *memStore) PermissionsRepo() repository.PermissionsRepository { return &memPerms{s} }
func (s *memStore) ResetTokenRepo() repository.ResetTokenRepository   { return &memTokens{s} }
func (s *memStore) EntryRepo() repository.EntryRepository             { return &memEntries{s} }

type memPersons struct{ s *memStore }

func (r *memPersons) conflict(p *entity.Person) bool {
	for id, other := range r.s.persons {
		if id == p.ID {
			continue
		}
		if other.Email == p.Email {
			return true
		}
		if p.HasFederatedID() && other.HasFederatedID() && *other.FederatedID == *p.FederatedID {
			return true
		}
	}

	return false
}

func (r *memPersons) Create(_ context.Context, p *entity.Person) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if r.conflict(p) {
		return domainerrors.ErrConflict.WrapMessage("duplicate person")
	}
	r.s.persons[p.ID] = *p

	return nil
}

func (r *memPersons) FindAll(context.Context) ([]*entity.Person, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*entity.Person, 0, len(r.s.persons))
	for _, p := range r.s.persons {
		out = append(out, &p)
	}

	return out, nil
}

func (r *memPersons) findBy(match func(entity.Person) bool) (*entity.Person, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.findPersonErr != nil {
		return nil, r.s.findPersonErr
	}
	for _, p := range r.s.persons {
		if match(p) {
			return &p, nil
		}
	}

	return nil, repository.ErrPersonNotFound
}

func (r *memPersons) FindByID(_ context.Context, id uuid.UUID) (*entity.Person, error) {
	return r.findBy(func(p entity.Person) bool { return p.ID == id })
}

func (r *memPersons) FindByEmail(_ context.Context, email string) (*entity.Person, error) {
	return r.findBy(func(p entity.Person) bool { return p.Email == email })
}

func (r *memPersons) FindByFederatedID(_ context.Context, fid string) (*entity.Person, error) {
	return r.findBy(func(p entity.Person) bool { return p.HasFederatedID() && *p.FederatedID == fid })
}

func (r *memPersons) Update(_ context.Context, p *entity.Person) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.updatePersonErr != nil {
		return r.s.updatePersonErr
	}
	if _, ok := r.s.persons[p.ID]; !ok {
		return repository.ErrPersonNotFound
	}
	if r.conflict(p) {
		return domainerrors.ErrConflict.WrapMessage("duplicate person")
	}
	r.s.persons[p.ID] = *p

	return nil
}

func (r *memPersons) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.persons[id]; !ok {
		return repository.ErrPersonNotFound
	}
	delete(r.s.persons, id)

	return nil
}

func (r *memPersons) UpdateFederatedID(ctx context.Context, id uuid.UUID, fid string) (*entity.Person, error) {
	r.s.mu.Lock()
	p, ok := r.s.persons[id]
	if !ok {
		r.s.mu.Unlock()

		return nil, repository.ErrPersonNotFound
	}
	p.FederatedID = &fid
	if r.conflict(&p) {
		r.s.mu.Unlock()

		return nil, domainerrors.ErrConflict.WrapMessage("duplicate google id")
	}
	r.s.persons[id] = p
	r.s.mu.Unlock()

	return r.FindByID(ctx, id)
}

type memPerms struct{ s *memStore }

func (r *memPerms) Create(_ context.Context, p *entity.Permissions) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.createPermsErr != nil {
		return r.s.createPermsErr
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.s.perms[p.ID] = *p

	return nil
}

func (r *memPerms) FindAll(context.Context) ([]*entity.Permissions, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*entity.Permissions, 0, len(r.s.perms))
	for _, p := range r.s.perms {
		out = append(out, &p)
	}

	return out, nil
}

func (r *memPerms) FindByPersonID(_ context.Context, personID uuid.UUID) ([]*entity.Permissions, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Permissions
	for _, p := range r.s.perms {
		if p.PersonID == personID {
			out = append(out, &p)
		}
	}

	return out, nil
}

func (r *memPerms) FindByID(_ context.Context, id uuid.UUID) (*entity.Permissions, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.perms[id]
	if !ok {
		return nil, repository.ErrPermissionsNotFound
	}

	return &p, nil
}

func (r *memPerms) Update(_ context.Context, p *entity.Permissions) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.perms[p.ID]; !ok {
		return repository.ErrPermissionsNotFound
	}
	r.s.perms[p.ID] = *p

	return nil
}

func (r *memPerms) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.perms[id]; !ok {
		return repository.ErrPermissionsNotFound
	}
	delete(r.s.perms, id)

	return nil
}

type memTokens struct{ s *memStore }

func (r *memTokens) Create(_ context.Context, email string) (*entity.PasswordResetToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.createTokenErr != nil {
		return nil, r.s.createTokenErr
	}
	now := r.s.now()
	tok := entity.PasswordResetToken{
		ID:        uuid.New(),
		Email:     email,
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(r.s.ttl),
		CreatedAt: now,
	}
	r.s.tokens[tok.Token] = tok

	return &tok, nil
}

func (r *memTokens) FindByToken(_ context.Context, token string) (*entity.PasswordResetToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tok, ok := r.s.tokens[token]
	if !ok {
		return nil, repository.ErrResetTokenNotFound
	}

	return &tok, nil
}

func (r *memTokens) DeleteByToken(_ context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.deleteTokenCalls++
	delete(r.s.tokens, token)

	return nil
}

func (r *memTokens) Consume(_ context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tokens[token]; !ok {
		return repository.ErrResetTokenNotFound
	}
	r.s.deleteTokenCalls++
	delete(r.s.tokens, token)

	return nil
}

func (r *memTokens) DeleteExpired(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.deleteExpiredRuns++
	if r.s.deleteExpiredErr != nil {
		return 0, r.s.deleteExpiredErr
	}
	var n int64
	for k, tok := range r.s.tokens {
		if !tok.IsValid(r.s.now()) {
			delete(r.s.tokens, k)
			n++
		}
	}

	return n, nil
}

type memEntries struct{ s *memStore }

func (r *memEntries) Create(_ context.Context, e *entity.Entry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.persons[e.PersonID]; !ok {
		return domainerrors.ErrUserNotFound.WrapMessage("invalid person reference")
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.s.entries[e.ID] = *e

	return nil
}

func (r *memEntries) FindByID(_ context.Context, id uuid.UUID) (*entity.Entry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.entries[id]
	if !ok {
		return nil, repository.ErrEntryNotFound
	}

	return &e, nil
}

func (r *memEntries) Find(_ context.Context, f repository.EntryFilter) ([]*entity.Entry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Entry
	for _, e := range r.s.entries {
		if f.PersonID != nil && e.PersonID != *f.PersonID {
			continue
		}
		if f.Action != nil && e.Action != *f.Action {
			continue
		}
		if f.Until != nil && e.Instant.After(*f.Until) {
			continue
		}
		out = append(out, &e)
	}

	return out, nil
}

func (r *memEntries) Update(_ context.Context, e *entity.Entry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.entries[e.ID]; !ok {
		return repository.ErrEntryNotFound
	}
	r.s.entries[e.ID] = *e

	return nil
}

func (r *memEntries) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.entries[id]; !ok {
		return repository.ErrEntryNotFound
	}
	delete(r.s.entries, id)

	return nil
}

// --- Collaborator mocks ---

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	args := m.Called(ctx, email, token)

	return args.Error(0)
}

type mockVerifier struct {
	mock.Mock
	enabled bool
}

func (m *mockVerifier) Enabled() bool { return m.enabled }

func (m *mockVerifier) Verify(ctx context.Context, idToken string) (*service.FederatedIdentity, error) {
	args := m.Called(ctx, idToken)
	identity, _ := args.Get(0).(*service.FederatedIdentity)

	return identity, args.Error(1)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*service.AuthEvent
	err    error
}

func (p *recordingPublisher) PublishAuthEvent(_ context.Context, event *service.AuthEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)

	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []service.AuthEventType {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]service.AuthEventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}

	return out
}
