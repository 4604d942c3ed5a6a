// Package service implements sign-in, profile reads and administrator-driven
// vendedor provisioning.
package service

import (
	"context"
	"errors"
	"strings"

	"pipeline_backend/internal/auth"
	"pipeline_backend/internal/auth/password"
	"pipeline_backend/internal/auth/repository"
	"pipeline_backend/internal/auth/token"
	"pipeline_backend/internal/auth/transport"
	"pipeline_backend/internal/events"
	"pipeline_backend/platform/apperr"
	"pipeline_backend/platform/config"
	"pipeline_backend/platform/httpkit"
	"pipeline_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	msgInvalidCredentials = "invalid credentials"
	msgOnlyAdmins         = "only administrators can create vendedores"
	msgUserNotFound       = "user not found"
)

// Service provides authentication and account management.
type Service struct {
	repo     repository.AuthRepository
	issuer   *token.Issuer
	eventBus events.Bus
	log      *logger.Logger
}

// New creates a new auth service.
func New(repo repository.AuthRepository, cfg config.AuthServiceConfig, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		issuer:   token.NewIssuer(cfg.GetJWTAccessSecret(), cfg.GetAccessTokenTTL()),
		eventBus: eventBus,
		log:      log,
	}
}

// SignIn verifies credentials and issues an access token carrying the
// user's current roles.
func (s *Service) SignIn(ctx context.Context, email, plainPassword string) (transport.AuthResponse, error) {
	email = normalizeEmail(email)

	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.AuthEvent("sign_in", email, false, "unknown email")
		return transport.AuthResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return transport.AuthResponse{}, err
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("sign_in", email, false, "wrong password")
		return transport.AuthResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	roles, err := s.repo.GetUserRoles(ctx, user.ID)
	if err != nil {
		return transport.AuthResponse{}, err
	}

	accessToken, expiresAt, err := s.issuer.Issue(user.ID, roles)
	if err != nil {
		return transport.AuthResponse{}, apperr.Wrap(apperr.KindInternal, "could not issue token", err)
	}

	s.log.AuthEvent("sign_in", email, true, "")
	return transport.AuthResponse{AccessToken: accessToken, ExpiresAt: expiresAt}, nil
}

// GetMe returns the profile of the user with the given ID.
func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (auth.Profile, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return auth.Profile{}, apperr.NotFound(msgUserNotFound)
	}
	if err != nil {
		return auth.Profile{}, err
	}

	roles, err := s.repo.GetUserRoles(ctx, userID)
	if err != nil {
		return auth.Profile{}, err
	}

	return auth.Profile{
		ID:        user.ID,
		Email:     user.Email,
		Nome:      user.Nome,
		Roles:     roles,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}, nil
}

// ListUsers returns every account with its roles.
func (s *Service) ListUsers(ctx context.Context) (transport.UserListResponse, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return transport.UserListResponse{}, err
	}
	return toUserList(users), nil
}

// ListVendedores returns the accounts holding the vendedor role.
func (s *Service) ListVendedores(ctx context.Context) (transport.UserListResponse, error) {
	users, err := s.repo.ListUsersByRole(ctx, httpkit.RoleVendedor)
	if err != nil {
		return transport.UserListResponse{}, err
	}
	return toUserList(users), nil
}

// ProvisionVendedor creates a vendedor account on behalf of actorID. The
// caller's roles are re-read from the store, not trusted from the token.
// When the role grant fails the new account is deleted again, so no
// credential-only account survives.
func (s *Service) ProvisionVendedor(ctx context.Context, actorID uuid.UUID, req transport.CreateVendedorRequest) (transport.CreateVendedorResponse, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return transport.CreateVendedorResponse{}, err
	}

	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return transport.CreateVendedorResponse{}, apperr.Validation("email and password are required")
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.CreateVendedorResponse{}, apperr.Wrap(apperr.KindInternal, "could not hash password", err)
	}

	user, err := s.repo.CreateUser(ctx, email, hash)
	if err != nil {
		return transport.CreateVendedorResponse{}, err
	}

	nome := email
	if req.Nome != nil && strings.TrimSpace(*req.Nome) != "" {
		nome = strings.TrimSpace(*req.Nome)
	}
	if err := s.repo.UpdateUserName(ctx, user.ID, nome); err != nil {
		s.log.Warn("vendedor profile name not saved", "userId", user.ID, "error", err)
	}

	if err := s.repo.GrantRole(ctx, user.ID, httpkit.RoleVendedor); err != nil {
		log := s.log.WithContext(ctx)
		log.DatabaseError("grant vendedor role", err, "userId", user.ID)
		if delErr := s.repo.DeleteUser(ctx, user.ID); delErr != nil {
			log.DatabaseError("remove provisioned account", delErr, "userId", user.ID)
		}
		return transport.CreateVendedorResponse{}, apperr.Wrap(apperr.KindInternal, "could not grant vendedor role", err)
	}

	s.log.WithContext(ctx).Info("vendedor provisioned", "userId", user.ID, "createdBy", actorID)
	s.eventBus.Publish(ctx, events.VendedorProvisioned{
		BaseEvent: events.NewBaseEvent(),
		UserID:    user.ID,
		Email:     email,
		Name:      nome,
		CreatedBy: actorID,
	})

	return transport.CreateVendedorResponse{Success: true, UserID: user.ID, Email: email}, nil
}

// RemoveVendedor revokes the vendedor role. The account and its leads stay.
func (s *Service) RemoveVendedor(ctx context.Context, actorID, userID uuid.UUID) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}

	err := s.repo.RevokeRole(ctx, userID, httpkit.RoleVendedor)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("vendedor not found")
	}
	if err != nil {
		return err
	}

	s.log.Info("vendedor role revoked", "userId", userID, "revokedBy", actorID)
	return nil
}

// EnsureBootstrapAdmin creates the first administrator when none exists.
func (s *Service) EnsureBootstrapAdmin(ctx context.Context, email, plainPassword string) error {
	email = normalizeEmail(email)
	if email == "" || plainPassword == "" {
		return nil
	}

	exists, err := s.repo.AnyUserWithRole(ctx, httpkit.RoleAdmin)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		hash, hashErr := password.Hash(plainPassword)
		if hashErr != nil {
			return hashErr
		}
		user, err = s.repo.CreateUser(ctx, email, hash)
	}
	if err != nil {
		return err
	}

	if err := s.repo.GrantRole(ctx, user.ID, httpkit.RoleAdmin); err != nil {
		return err
	}

	s.log.Info("bootstrap administrator ready", "userId", user.ID, "email", email)
	return nil
}

func (s *Service) requireAdmin(ctx context.Context, actorID uuid.UUID) error {
	roles, err := s.repo.GetUserRoles(ctx, actorID)
	if err != nil {
		return err
	}
	for _, role := range roles {
		if role == httpkit.RoleAdmin {
			return nil
		}
	}
	return apperr.Forbidden(msgOnlyAdmins)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserList(users []repository.UserWithRoles) transport.UserListResponse {
	items := make([]transport.UserSummary, len(users))
	for i, u := range users {
		roles := u.Roles
		if roles == nil {
			roles = []string{}
		}
		items[i] = transport.UserSummary{
			ID:        u.ID,
			Email:     u.Email,
			Nome:      u.Nome,
			Roles:     roles,
			CreatedAt: u.CreatedAt,
		}
	}
	return transport.UserListResponse{Items: items}
}
