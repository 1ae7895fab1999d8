package user

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/Djaner15/EduPlatform/core"
)

var (
	ErrInvalidCredentials = core.NewUnauthorizedError("invalid credentials")

	// dummyHash is compared against when the username is unknown,
	// so that both failure paths cost one bcrypt comparison.
	dummyHash     []byte
	dummyHashOnce sync.Once
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	IssueToken(usr User) (string, error)
}

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
	UserID   int    `json:"userId"`
}

// AuthService authenticates users and registers new students.
type AuthService struct {
	repo      Repository
	tokens    TokenIssuer
	validator *core.Validator
}

func NewAuthService(repo Repository, tokens TokenIssuer, validator *core.Validator) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, validator: validator}
}

func (svc *AuthService) Login(ctx context.Context, uname, pwd string) (AuthResponse, error) {
	uname = core.CleanString(uname, true /* lower */)
	if uname == "" || pwd == "" {
		return AuthResponse{}, ErrInvalidCredentials
	}

	usr, err := svc.repo.GetUser(ctx, GetFilter{Username: uname})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			dummyHashOnce.Do(func() {
				dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-password"), bcrypt.DefaultCost)
			})
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(pwd))
			return AuthResponse{}, ErrInvalidCredentials
		}
		return AuthResponse{}, errors.Wrap(err, "finding user by username")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return AuthResponse{}, ErrInvalidCredentials
	}
	return svc.respond(usr)
}

// Register signs up a new Student and logs them in.
func (svc *AuthService) Register(ctx context.Context, nr NewRegistration) (AuthResponse, error) {
	if err := nr.Validate(svc.validator); err != nil {
		return AuthResponse{}, err
	}
	if err := svc.repo.CheckUniqueness(ctx, nr.Username, nr.Email, 0); err != nil {
		return AuthResponse{}, err
	}
	role, err := svc.repo.GetRoleByName(ctx, RoleStudent)
	if err != nil {
		return AuthResponse{}, errors.Wrap(err, "finding student role")
	}

	usr := User{
		Username:  nr.Username,
		Email:     nr.Email,
		RoleID:    role.ID,
		Role:      role.Name,
		CreatedAt: time.Now().UTC(),
	}
	if err = usr.SetPassword(nr.Password); err != nil {
		return AuthResponse{}, errors.Wrap(err, "hashing password")
	}
	if usr, err = svc.repo.CreateUser(ctx, usr); err != nil {
		return AuthResponse{}, err
	}
	return svc.respond(usr)
}

func (svc *AuthService) respond(usr User) (AuthResponse, error) {
	token, err := svc.tokens.IssueToken(usr)
	if err != nil {
		return AuthResponse{}, errors.Wrap(err, "issuing token")
	}
	return AuthResponse{
		Token:    token,
		Username: usr.Username,
		Role:     usr.Role,
		UserID:   usr.ID,
	}, nil
}
