package user

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/Djaner15/EduPlatform/core"
)

var (
	// errors
	ErrNotFound       = core.NewNotFoundError("user not found")
	ErrRoleNotFound   = core.NewNotFoundError("role not found")
	ErrUsernameExists = core.NewConflictError("username already exists",
		core.FieldError{Field: "username", Error: "username already exists"})
	ErrEmailExists = core.NewConflictError("email already exists",
		core.FieldError{Field: "email", Error: "email already exists"})
	ErrInvalidRole = core.NewValidationError("invalid role",
		core.FieldError{Field: "roleId", Error: "invalid role"})
	ErrAdminCreation = core.NewForbiddenError("cannot create admin users")
)

type (
	Repository interface {
		// CheckUniqueness returns ErrUsernameExists or ErrEmailExists when another user
		// (other than excludedID) already holds the username or email.
		CheckUniqueness(ctx context.Context, username, email string, excludedID int) error
		CreateUser(ctx context.Context, usr User) (User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		DeleteUser(ctx context.Context, id int) error
		GetUser(ctx context.Context, filter GetFilter) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		GetRoleByID(ctx context.Context, id int) (Role, error)
		GetRoleByName(ctx context.Context, name string) (Role, error)
		QueryAllRoles(ctx context.Context) ([]Role, error)
	}

	// Service manages users on behalf of admins.
	Service struct {
		repo      Repository
		validator *core.Validator
	}
)

func NewService(repo Repository, validator *core.Validator) *Service {
	return &Service{repo: repo, validator: validator}
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{ID: id})
}

func (svc *Service) Roles(ctx context.Context) ([]Role, error) {
	return svc.repo.QueryAllRoles(ctx)
}

// assignableRole resolves roleID. Admin is never assignable.
func (svc *Service) assignableRole(ctx context.Context, roleID int) (Role, error) {
	role, err := svc.repo.GetRoleByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return Role{}, ErrInvalidRole
		}
		return Role{}, errors.Wrap(err, "finding role")
	}
	if role.Name == RoleAdmin {
		return Role{}, ErrAdminCreation
	}
	return role, nil
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	if err := nu.Validate(svc.validator); err != nil {
		return User{}, err
	}
	if err := svc.repo.CheckUniqueness(ctx, nu.Username, nu.Email, 0); err != nil {
		return User{}, err
	}
	role, err := svc.assignableRole(ctx, nu.RoleID)
	if err != nil {
		return User{}, err
	}

	usr := User{
		Username:  nu.Username,
		Email:     nu.Email,
		RoleID:    role.ID,
		Role:      role.Name,
		CreatedAt: time.Now().UTC(),
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) Update(ctx context.Context, id int, uu UpdateUser) (User, error) {
	usr, err := svc.repo.GetUser(ctx, GetFilter{ID: id})
	if err != nil {
		return User{}, err
	}
	if err := uu.Validate(svc.validator); err != nil {
		return User{}, err
	}
	if err := svc.repo.CheckUniqueness(ctx, uu.Username, uu.Email, usr.ID); err != nil {
		return User{}, err
	}
	if uu.RoleID != usr.RoleID {
		role, err := svc.assignableRole(ctx, uu.RoleID)
		if err != nil {
			return User{}, err
		}
		usr.RoleID, usr.Role = role.ID, role.Name
	}

	usr.Username = uu.Username
	usr.Email = uu.Email
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return User{}, errors.Wrap(err, "hashing password")
		}
	}
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteUser(ctx, id)
}

// EnsureAdmin creates the bootstrap admin, or resets the role and password of an
// existing user with the same username or email.
func (svc *Service) EnsureAdmin(ctx context.Context, acc AdminAccount) (User, error) {
	if err := acc.Validate(svc.validator); err != nil {
		return User{}, err
	}
	role, err := svc.repo.GetRoleByName(ctx, RoleAdmin)
	if err != nil {
		return User{}, errors.Wrap(err, "finding admin role")
	}

	usr, err := svc.repo.GetUser(ctx, GetFilter{UsernameOrEmail: acc.Username})
	switch {
	case errors.Is(err, ErrNotFound):
		usr = User{
			Username:  acc.Username,
			Email:     acc.Email,
			RoleID:    role.ID,
			Role:      role.Name,
			CreatedAt: time.Now().UTC(),
		}
		if err := usr.SetPassword(acc.Password); err != nil {
			return User{}, errors.Wrap(err, "hashing password")
		}
		return svc.repo.CreateUser(ctx, usr)
	case err != nil:
		return User{}, errors.Wrap(err, "finding user")
	}

	usr.RoleID, usr.Role = role.ID, role.Name
	if err := usr.SetPassword(acc.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.UpdateUser(ctx, usr)
}

// ResetPassword sets a new password for the user matching the given username or email.
// The password policy applies as it does on registration.
func (svc *Service) ResetPassword(ctx context.Context, usernameOrEmail, pwd string) error {
	usr, err := svc.repo.GetUser(ctx, GetFilter{UsernameOrEmail: core.CleanString(usernameOrEmail, true /* lower */)})
	if err != nil {
		return err
	}
	pr := PasswordReset{Username: usr.Username, Email: usr.Email, Password: pwd}
	if err := pr.Validate(svc.validator); err != nil {
		return err
	}
	if err := usr.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	_, err = svc.repo.UpdateUser(ctx, usr)
	return err
}
