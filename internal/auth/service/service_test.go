package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"pipeline_backend/internal/auth/password"
	"pipeline_backend/internal/auth/repository"
	"pipeline_backend/internal/auth/transport"
	"pipeline_backend/internal/events"
	"pipeline_backend/platform/apperr"
	"pipeline_backend/platform/httpkit"
	"pipeline_backend/platform/logger"

	"github.com/google/uuid"
)

type testConfig struct{}

func (testConfig) GetJWTAccessSecret() string       { return "auth-service-test-secret" }
func (testConfig) GetAccessTokenTTL() time.Duration { return time.Hour }

type fakeRepo struct {
	users        map[uuid.UUID]repository.User
	roles        map[uuid.UUID][]string
	grantErr     error
	nameErr      error
	deleted      []uuid.UUID
	createdUsers int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users: make(map[uuid.UUID]repository.User),
		roles: make(map[uuid.UUID][]string),
	}
}

func (f *fakeRepo) addUser(email, plain string, roles ...string) uuid.UUID {
	hash, err := password.Hash(plain)
	if err != nil {
		panic(err)
	}
	id := uuid.New()
	f.users[id] = repository.User{ID: id, Email: email, PasswordHash: hash}
	f.roles[id] = roles
	return id
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (repository.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return repository.User{}, repository.ErrNotFound
}

func (f *fakeRepo) GetUserByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	u, ok := f.users[id]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeRepo) ListUsers(context.Context) ([]repository.UserWithRoles, error) {
	out := make([]repository.UserWithRoles, 0, len(f.users))
	for id, u := range f.users {
		out = append(out, repository.UserWithRoles{ID: id, Email: u.Email, Roles: f.roles[id]})
	}
	return out, nil
}

func (f *fakeRepo) ListUsersByRole(ctx context.Context, role string) ([]repository.UserWithRoles, error) {
	all, _ := f.ListUsers(ctx)
	out := make([]repository.UserWithRoles, 0)
	for _, u := range all {
		for _, r := range u.Roles {
			if r == role {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) AnyUserWithRole(_ context.Context, role string) (bool, error) {
	for _, roles := range f.roles {
		for _, r := range roles {
			if r == role {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeRepo) CreateUser(ctx context.Context, email, hash string) (repository.User, error) {
	if _, err := f.GetUserByEmail(ctx, email); err == nil {
		return repository.User{}, apperr.Conflict("email already registered")
	}
	f.createdUsers++
	u := repository.User{ID: uuid.New(), Email: email, PasswordHash: hash}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeRepo) UpdateUserName(_ context.Context, id uuid.UUID, nome string) error {
	if f.nameErr != nil {
		return f.nameErr
	}
	u := f.users[id]
	u.Nome = &nome
	f.users[id] = u
	return nil
}

func (f *fakeRepo) DeleteUser(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	delete(f.users, id)
	delete(f.roles, id)
	return nil
}

func (f *fakeRepo) GetUserRoles(_ context.Context, id uuid.UUID) ([]string, error) {
	return append([]string{}, f.roles[id]...), nil
}

func (f *fakeRepo) GrantRole(_ context.Context, id uuid.UUID, role string) error {
	if f.grantErr != nil {
		return f.grantErr
	}
	f.roles[id] = append(f.roles[id], role)
	return nil
}

func (f *fakeRepo) RevokeRole(_ context.Context, id uuid.UUID, role string) error {
	roles := f.roles[id]
	for i, r := range roles {
		if r == role {
			f.roles[id] = append(roles[:i], roles[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type recordingBus struct {
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func newTestService(repo *fakeRepo, bus *recordingBus) *Service {
	return New(repo, testConfig{}, bus, logger.Discard())
}

func TestProvisionVendedorCreatesAccount(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addUser("admin@example.com", "admin-pass", httpkit.RoleAdmin)
	bus := &recordingBus{}
	svc := newTestService(repo, bus)
	nome := "Joana Lima"

	result, err := svc.ProvisionVendedor(context.Background(), admin, transport.CreateVendedorRequest{
		Email:    " Joana@Example.com ",
		Password: "segredo1",
		Nome:     &nome,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success || result.Email != "joana@example.com" {
		t.Fatalf("unexpected result: %+v", result)
	}

	roles := repo.roles[result.UserID]
	if len(roles) != 1 || roles[0] != httpkit.RoleVendedor {
		t.Fatalf("expected vendedor role, got %v", roles)
	}
	if got := repo.users[result.UserID].Nome; got == nil || *got != "Joana Lima" {
		t.Fatalf("expected profile name to be stored, got %v", got)
	}
	if len(bus.events) != 1 || bus.events[0].EventName() != "auth.vendedor_provisioned" {
		t.Fatalf("expected provisioned event, got %v", bus.events)
	}
}

func TestProvisionVendedorRejectsNonAdminBeforeWriting(t *testing.T) {
	repo := newFakeRepo()
	caller := repo.addUser("vend@example.com", "pass123", httpkit.RoleVendedor)
	svc := newTestService(repo, &recordingBus{})

	_, err := svc.ProvisionVendedor(context.Background(), caller, transport.CreateVendedorRequest{
		Email:    "novo@example.com",
		Password: "segredo1",
	})
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if repo.createdUsers != 0 {
		t.Fatalf("expected no account to be created")
	}
}

func TestProvisionVendedorRequiresCredentials(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addUser("admin@example.com", "admin-pass", httpkit.RoleAdmin)
	svc := newTestService(repo, &recordingBus{})

	cases := []transport.CreateVendedorRequest{
		{Email: "", Password: "segredo1"},
		{Email: "novo@example.com", Password: ""},
	}
	for _, req := range cases {
		_, err := svc.ProvisionVendedor(context.Background(), admin, req)
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("expected validation error for %+v, got %v", req, err)
		}
	}
}

func TestProvisionVendedorDuplicateEmailConflicts(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addUser("admin@example.com", "admin-pass", httpkit.RoleAdmin)
	repo.addUser("taken@example.com", "whatever")
	svc := newTestService(repo, &recordingBus{})

	_, err := svc.ProvisionVendedor(context.Background(), admin, transport.CreateVendedorRequest{
		Email:    "taken@example.com",
		Password: "segredo1",
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestProvisionVendedorRollsBackWhenRoleFails(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addUser("admin@example.com", "admin-pass", httpkit.RoleAdmin)
	repo.grantErr = errors.New("connection refused")
	bus := &recordingBus{}
	svc := newTestService(repo, bus)

	_, err := svc.ProvisionVendedor(context.Background(), admin, transport.CreateVendedorRequest{
		Email:    "novo@example.com",
		Password: "segredo1",
	})
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if len(repo.deleted) != 1 {
		t.Fatalf("expected the new account to be deleted, got %d deletions", len(repo.deleted))
	}
	if _, err := repo.GetUserByEmail(context.Background(), "novo@example.com"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected no surviving account")
	}
	if len(bus.events) != 0 {
		t.Fatalf("expected no event after rollback")
	}
}

func TestProvisionVendedorIgnoresProfileNameFailure(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addUser("admin@example.com", "admin-pass", httpkit.RoleAdmin)
	repo.nameErr = errors.New("timeout")
	svc := newTestService(repo, &recordingBus{})

	result, err := svc.ProvisionVendedor(context.Background(), admin, transport.CreateVendedorRequest{
		Email:    "novo@example.com",
		Password: "segredo1",
	})
	if err != nil {
		t.Fatalf("expected success despite name failure, got %v", err)
	}
	if len(repo.roles[result.UserID]) != 1 {
		t.Fatalf("expected vendedor role to be granted")
	}
}

func TestSignIn(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser("vend@example.com", "correct-pass", httpkit.RoleVendedor)
	svc := newTestService(repo, &recordingBus{})

	result, err := svc.SignIn(context.Background(), "VEND@example.com", "correct-pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AccessToken == "" {
		t.Fatalf("expected an access token")
	}

	cases := []struct {
		email    string
		password string
	}{
		{email: "vend@example.com", password: "wrong"},
		{email: "ghost@example.com", password: "correct-pass"},
	}
	for _, tc := range cases {
		if _, err := svc.SignIn(context.Background(), tc.email, tc.password); !apperr.Is(err, apperr.KindUnauthorized) {
			t.Fatalf("expected unauthorized for %s, got %v", tc.email, err)
		}
	}
}

func TestRemoveVendedorRevokesRoleOnly(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addUser("admin@example.com", "admin-pass", httpkit.RoleAdmin)
	vendedor := repo.addUser("vend@example.com", "pass123", httpkit.RoleVendedor)
	svc := newTestService(repo, &recordingBus{})

	if err := svc.RemoveVendedor(context.Background(), admin, vendedor); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.roles[vendedor]) != 0 {
		t.Fatalf("expected vendedor role revoked, got %v", repo.roles[vendedor])
	}
	if _, ok := repo.users[vendedor]; !ok {
		t.Fatalf("expected the account to remain")
	}

	if err := svc.RemoveVendedor(context.Background(), admin, vendedor); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found on second removal, got %v", err)
	}
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &recordingBus{})
	ctx := context.Background()

	if err := svc.EnsureBootstrapAdmin(ctx, "root@example.com", "bootstrap-pass"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.createdUsers != 1 {
		t.Fatalf("expected one admin account, got %d", repo.createdUsers)
	}

	if err := svc.EnsureBootstrapAdmin(ctx, "other@example.com", "bootstrap-pass"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.createdUsers != 1 {
		t.Fatalf("expected no second admin once one exists")
	}
}
