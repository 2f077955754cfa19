package service

import (
	"context"
	"errors"

	"github.com/chamalog/chamalog/internal/auth"
	"github.com/chamalog/chamalog/internal/domain/activity"
	"github.com/chamalog/chamalog/internal/domain/ids"
	"github.com/chamalog/chamalog/internal/domain/user"
	"github.com/chamalog/chamalog/internal/security"
)

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
	List(ctx context.Context) ([]user.User, error)
	Create(ctx context.Context, u *user.User) error
	Update(ctx context.Context, id int64, req user.UpdateRequest, storeID *int64) error
	Delete(ctx context.Context, id int64) error
}

type TokenIssuer interface {
	GenerateToken(s auth.Subject) (string, error)
}

type UserService struct {
	users    UserStore
	versions *TokenVersions
	tokens   TokenIssuer
	activity Recorder
}

func NewUserService(users UserStore, versions *TokenVersions, tokens TokenIssuer, activity Recorder) *UserService {
	return &UserService{users: users, versions: versions, tokens: tokens, activity: activity}
}

// Authenticate checks credentials. Unknown e-mails and wrong passwords both
// return user.ErrInvalidCredentials after a bcrypt comparison.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (user.User, string, error) {
	u, err := s.users.GetByEmail(ctx, email)

	if errors.Is(err, user.ErrNotFound) {
		security.BurnPasswordCheck(password)
		return user.User{}, "", user.ErrInvalidCredentials
	}

	if err != nil {
		return user.User{}, "", err
	}

	if err := security.CheckPassword(u.PasswordHash, password); err != nil {
		return user.User{}, "", user.ErrInvalidCredentials
	}

	token, err := s.issue(u)

	if err != nil {
		return user.User{}, "", err
	}

	return u, token, nil
}

// Register creates a customer account and signs it in.
func (s *UserService) Register(ctx context.Context, req user.SignUpRequest) (user.User, string, error) {
	hash, err := security.HashPassword(req.Password)

	if err != nil {
		return user.User{}, "", err
	}

	u := user.User{Name: req.Name, Email: req.Email, PasswordHash: hash, Role: user.RoleCustomer}

	if err := s.users.Create(ctx, &u); err != nil {
		return user.User{}, "", err
	}

	s.activity.Record(ctx, activity.UserRegistered(u.Email), u.ID)

	token, err := s.issue(u)

	if err != nil {
		return user.User{}, "", err
	}

	return u, token, nil
}

func (s *UserService) issue(u user.User) (string, error) {
	return s.tokens.GenerateToken(auth.Subject{
		ID:      u.ID,
		Email:   u.Email,
		Role:    string(u.Role),
		Version: u.TokenVersion,
	})
}

func (s *UserService) Me(ctx context.Context, actor Actor) (user.User, error) {
	return s.users.GetByID(ctx, actor.ID)
}

func (s *UserService) LogoutAll(ctx context.Context, actor Actor) error {
	_, err := s.versions.Bump(ctx, actor.ID)
	return err
}

func (s *UserService) List(ctx context.Context) ([]user.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Create(ctx context.Context, actor Actor, req user.CreateRequest) (user.User, error) {
	if !req.Role.IsValid() {
		return user.User{}, user.ErrInvalidRole
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		return user.User{}, err
	}

	u := user.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		StoreID:      ids.Ptr(req.StoreID),
	}

	if err := s.users.Create(ctx, &u); err != nil {
		return user.User{}, err
	}

	s.activity.Record(ctx, activity.UserCreated(u.Email, string(u.Role)), actor.ID)

	return u, nil
}

// Update changes profile fields only; passwords are not editable here.
func (s *UserService) Update(ctx context.Context, actor Actor, id int64, req user.UpdateRequest) error {
	if !req.Role.IsValid() {
		return user.ErrInvalidRole
	}

	if err := s.users.Update(ctx, id, req, ids.Ptr(req.StoreID)); err != nil {
		return err
	}

	s.activity.Record(ctx, activity.UserUpdated(req.Email, string(req.Role)), actor.ID)

	return nil
}

// Delete refuses to remove the caller's own account. A missing target is
// reported before the self check.
func (s *UserService) Delete(ctx context.Context, actor Actor, id int64) error {
	target, err := s.users.GetByID(ctx, id)

	if err != nil {
		return err
	}

	if target.ID == actor.ID {
		return user.ErrSelfDelete
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.activity.Record(ctx, activity.UserDeleted(target.Email), actor.ID)

	return nil
}
