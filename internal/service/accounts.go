package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/auth"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stanleylima25/ECC-Brasil/internal/repository"
	"go.uber.org/zap"
)

const minPasswordLength = 8

type AccountService struct {
	users  repository.UserRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewAccountService(users repository.UserRepository, logger *zap.Logger) *AccountService {
	return &AccountService{users: users, logger: logger, now: time.Now}
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
	Parish   string
	Region   string
	// AcceptedTerms is the caller's declaration that they hold the role
	// they are signing up with.
	AcceptedTerms bool
}

// Signup creates a self-service account. ADMIN accounts can only be
// provisioned from the admin CLI, and no term window is granted here.
func (s *AccountService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if in.Role == models.RoleAdmin {
		return nil, invalid("role", "ADMIN accounts cannot be self-registered")
	}
	if !in.AcceptedTerms {
		return nil, invalid("accepted_terms", "the authority declaration must be accepted")
	}
	return s.create(ctx, in, nil, nil)
}

// Provision creates an account with any role and an optional term window.
// It backs the admin CLI.
func (s *AccountService) Provision(ctx context.Context, in SignupInput, termStart, termEnd *time.Time) (*models.User, error) {
	if termStart != nil && termEnd != nil && !termEnd.After(*termStart) {
		return nil, invalid("term_end", "must be after term_start")
	}
	return s.create(ctx, in, termStart, termEnd)
}

func (s *AccountService) create(ctx context.Context, in SignupInput, termStart, termEnd *time.Time) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	switch {
	case name == "":
		return nil, invalid("name", "is required")
	case email == "" || !strings.Contains(email, "@"):
		return nil, invalid("email", "must be a valid address")
	case len(in.Password) < minPasswordLength:
		return nil, invalid("password", fmt.Sprintf("must have at least %d characters", minPasswordLength))
	case !in.Role.Valid():
		return nil, invalid("role", "unknown role")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Role:         in.Role,
		Email:        email,
		PasswordHash: hash,
		Parish:       strings.TrimSpace(in.Parish),
		Region:       strings.TrimSpace(in.Region),
		TermStart:    termStart,
		TermEnd:      termEnd,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	s.logger.Info("account created", zap.String("user_id", u.ID.String()), zap.String("role", string(u.Role)))
	u.PasswordHash = ""
	return u, nil
}

// Authenticate matches email exactly and checks the bcrypt hash. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	u.PasswordHash = ""
	return u, nil
}

func (s *AccountService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	u.PasswordHash = ""
	return u, nil
}

func (s *AccountService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// ExtendTerm sets a user's term window. Only the spiritual director and
// admins may do so.
func (s *AccountService) ExtendTerm(ctx context.Context, actor *models.User, id uuid.UUID, start, end time.Time) (*models.User, error) {
	if !models.CanManageTerms(actor) {
		return nil, ErrForbidden
	}
	if end.IsZero() {
		return nil, invalid("term_end", "is required")
	}
	if !start.IsZero() && !end.After(start) {
		return nil, invalid("term_end", "must be after term_start")
	}

	var startPtr *time.Time
	if !start.IsZero() {
		startPtr = &start
	}
	found, err := s.users.UpdateTerm(ctx, id, startPtr, &end)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}

	s.logger.Info("term updated",
		zap.String("user_id", id.String()),
		zap.String("by", actor.ID.String()),
		zap.Time("term_end", end),
	)
	return s.Get(ctx, id)
}
