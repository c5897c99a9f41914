package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tradepost/tradepost/internal/auth"
	"github.com/tradepost/tradepost/internal/authz"
	"github.com/tradepost/tradepost/internal/metrics"
	"github.com/tradepost/tradepost/internal/model"
	"github.com/tradepost/tradepost/internal/repository"
)

const (
	minPasswordLength = 6
	defaultPageSize   = 10
	maxPageSize       = 100
)

// UserStore is the credential store contract the account service
// depends on. *repository.Repository satisfies it; tests use an
// in-memory fake.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context, offset, limit int) ([]*model.User, int64, error)
	UpdateUser(ctx context.Context, user *model.User) error
	SoftDeleteUser(ctx context.Context, id string) error
	HardDeleteUser(ctx context.Context, id string) error
}

// AccountService orchestrates registration, authentication and account
// management against the credential store and the token service.
// It is stateless: every call reads its inputs and performs at most a
// couple of store round trips, so concurrent use needs no locking here.
type AccountService struct {
	store   UserStore
	tokens  *auth.TokenService
	metrics metrics.Recorder
}

// NewAccountService creates a new AccountService.
func NewAccountService(store UserStore, tokens *auth.TokenService, recorder metrics.Recorder) *AccountService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AccountService{
		store:   store,
		tokens:  tokens,
		metrics: recorder,
	}
}

// RegisterInput defines input for registering an account.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// AuthResult is the outcome of a successful register or login.
type AuthResult struct {
	User         *model.User
	AccessToken  string
	RefreshToken string
}

// Register creates a new account with the default user role and issues
// both tokens. Token issuance cannot fail for a stored account, so
// there is no partial "account without tokens" state.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           ulid.Make().String(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.IncUserRegistered()

	return s.issueTokens(user)
}

// Login authenticates by email and password. Unknown email and wrong
// password produce the same error so the response never reveals which
// one it was.
func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		return nil, ErrInvalidCredentials
	}

	s.metrics.IncUserLogin()

	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a new access token.
// The refresh token itself is not rotated or revoked; it stays valid
// until its natural expiry.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.Verify(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return "", ErrInvalidToken
	}

	// The account may have been deleted since the token was issued.
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	accessToken, err := s.tokens.IssueAccessToken(userID)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}

	s.metrics.IncTokenRefreshed()

	return accessToken, nil
}

// ChangePassword verifies the current password and replaces the stored
// hash. The new password is validated before any store access.
func (s *AccountService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	match, err := auth.VerifyPassword(currentPassword, user.PasswordHash)
	if err != nil || !match {
		return ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

// GetProfile returns the account for the given id.
func (s *AccountService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	return s.GetUser(ctx, userID)
}

// GetUser retrieves a single active user.
func (s *AccountService) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListUsersOutput is a page of users plus pagination info.
type ListUsersOutput struct {
	Users []*model.User
	Page  int
	Limit int
	Total int64
}

// ListUsers retrieves an offset-paginated page of active users.
func (s *AccountService) ListUsers(ctx context.Context, page, limit int) (*ListUsersOutput, error) {
	page, limit = clampPage(page, limit)

	users, total, err := s.store.ListUsers(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	return &ListUsersOutput{
		Users: users,
		Page:  page,
		Limit: limit,
		Total: total,
	}, nil
}

// CreateUserInput defines input for privileged account creation.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      model.Role
}

// CreateUser creates an account on behalf of an acting account.
// Unlike Register, the role is caller-chosen and the authorization
// engine decides whether the actor may assign it. The created account
// records the actor as its creator.
func (s *AccountService) CreateUser(ctx context.Context, actor *model.AuthContext, input CreateUserInput) (*model.User, error) {
	role := input.Role
	if role == "" {
		role = model.RoleUser
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: invalid role %q", ErrValidation, input.Role)
	}

	decision := authz.Evaluate(authz.Request{
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		Action:    authz.ActionCreate,
		Resource:  authz.Resource{Kind: authz.KindAccount},
		NewRole:   role,
	})
	if !decision.Allowed {
		s.metrics.IncAuthzDenied(decision.Rule)
		return nil, ErrForbidden
	}

	if err := validateRegisterInput(RegisterInput{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  input.Password,
	}); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	creatorID := actor.UserID
	now := time.Now().UTC()
	user := &model.User{
		ID:           ulid.Make().String(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
		CreatorID:    &creatorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// UpdateUserInput defines input for updating an account. Nil fields are
// left untouched. A non-nil Role counts as touching the role field even
// when the value matches the current one.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Role      *model.Role
}

// UpdateUser updates a target account after consulting the
// authorization engine.
func (s *AccountService) UpdateUser(ctx context.Context, actor *model.AuthContext, id string, input UpdateUserInput) (*model.User, error) {
	target, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	var newRole model.Role
	if input.Role != nil {
		newRole = *input.Role
		if !newRole.IsValid() {
			return nil, fmt.Errorf("%w: invalid role %q", ErrValidation, newRole)
		}
	}

	decision := authz.Evaluate(authz.Request{
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		Action:    authz.ActionUpdate,
		Resource: authz.Resource{
			Kind: authz.KindAccount,
			ID:   target.ID,
			Role: target.Role,
		},
		NewRole: newRole,
	})
	if !decision.Allowed {
		s.metrics.IncAuthzDenied(decision.Rule)
		return nil, ErrForbidden
	}

	if input.FirstName != nil {
		target.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		target.LastName = *input.LastName
	}
	if input.Email != nil {
		if !looksLikeEmail(*input.Email) {
			return nil, fmt.Errorf("%w: invalid email", ErrValidation)
		}
		target.Email = *input.Email
	}
	if input.Role != nil {
		target.Role = newRole
	}
	target.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateUser(ctx, target); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.metrics.IncUserUpdated()

	return target, nil
}

// DeleteUser deletes a target account. The authorization engine decides
// both whether the actor may delete at all and whether the delete lands
// hard (admin) or soft (everyone else). Setting permanent asks for row
// removal explicitly, which only admins are granted.
func (s *AccountService) DeleteUser(ctx context.Context, actor *model.AuthContext, id string, permanent bool) error {
	target, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	action := authz.ActionDelete
	if permanent {
		action = authz.ActionHardDelete
	}

	decision := authz.Evaluate(authz.Request{
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		Action:    action,
		Resource: authz.Resource{
			Kind: authz.KindAccount,
			ID:   target.ID,
			Role: target.Role,
		},
	})
	if !decision.Allowed {
		s.metrics.IncAuthzDenied(decision.Rule)
		return ErrForbidden
	}

	if decision.DeleteMode == authz.DeleteHard {
		err = s.store.HardDeleteUser(ctx, id)
	} else {
		err = s.store.SoftDeleteUser(ctx, id)
	}
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	s.metrics.IncUserDeleted()

	return nil
}

// issueTokens signs an access and a refresh token for the user.
func (s *AccountService) issueTokens(user *model.User) (*AuthResult, error) {
	accessToken, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// validateRegisterInput checks registration fields before any I/O.
func validateRegisterInput(input RegisterInput) error {
	if input.FirstName == "" || input.LastName == "" {
		return fmt.Errorf("%w: first and last name are required", ErrValidation)
	}
	if !looksLikeEmail(input.Email) {
		return fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(input.Password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	return nil
}

// looksLikeEmail is a cheap structural check; real validation happens
// when mail is actually delivered.
func looksLikeEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t\n")
}

// clampPage normalizes pagination parameters.
func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
