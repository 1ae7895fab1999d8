package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Djaner15/EduPlatform/core"
)

// Roles
const (
	RoleAdmin   = "Admin"
	RoleTeacher = "Teacher"
	RoleStudent = "Student"
)

type Role struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	RoleID       int       `json:"roleId"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NewRegistration contains the information a visitor provides to sign up.
type NewRegistration struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (nr *NewRegistration) Validate(v *core.Validator) error {
	nr.Username = core.CleanString(nr.Username, true /* lower */)
	nr.Email = core.CleanString(nr.Email, true /* lower */)
	return v.Struct(nr)
}

// NewUser contains information needed by an admin to create a new User.
type NewUser struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	RoleID   int    `json:"roleId" validate:"required"`
}

func (nu *NewUser) Validate(v *core.Validator) error {
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	return v.Struct(nu)
}

// UpdateUser defines what information may be provided to modify an existing User.
// The password is left unchanged when Password is blank.
type UpdateUser struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
	RoleID   int    `json:"roleId" validate:"required"`
}

func (uu *UpdateUser) Validate(v *core.Validator) error {
	uu.Username = core.CleanString(uu.Username, true /* lower */)
	uu.Email = core.CleanString(uu.Email, true /* lower */)
	if core.CleanString(uu.Password) == "" {
		uu.Password = ""
	}
	return v.Struct(uu)
}

// AdminAccount describes the bootstrap admin.
type AdminAccount struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (aa *AdminAccount) Validate(v *core.Validator) error {
	aa.Username = core.CleanString(aa.Username, true /* lower */)
	aa.Email = core.CleanString(aa.Email, true /* lower */)
	return v.Struct(aa)
}

// PasswordReset is a new password for an existing account.
type PasswordReset struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

func (pr PasswordReset) Validate(v *core.Validator) error {
	return v.Struct(pr)
}

type GetFilter struct {
	ID              int
	Username        string
	UsernameOrEmail string
}
