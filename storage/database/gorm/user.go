package gormrepos

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Djaner15/EduPlatform/core"
	"github.com/Djaner15/EduPlatform/core/user"
	"github.com/Djaner15/EduPlatform/storage/database"
)

var errUserExists = core.NewConflictError("username or email already exists")

type userRepository struct {
	db *gorm.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

func toUser(rec userRecord) user.User {
	return user.User{
		ID:           rec.ID,
		Username:     rec.Username,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		RoleID:       rec.RoleID,
		Role:         rec.Role.Name,
		CreatedAt:    rec.CreatedAt.UTC(),
	}
}

func (repo *userRepository) CheckUniqueness(ctx context.Context, username, email string, excludedID int) error {
	var recs []userRecord
	q := repo.db.WithContext(ctx).
		Select("id", "username", "email").
		Where("(username = ? OR email = ?)", username, email)
	if excludedID > 0 {
		q = q.Where("id <> ?", excludedID)
	}
	if err := q.Find(&recs).Error; err != nil {
		return errors.Wrap(err, "checking user uniqueness")
	}

	for _, rec := range recs {
		if rec.Username == username {
			return user.ErrUsernameExists
		}
	}
	if len(recs) > 0 {
		return user.ErrEmailExists
	}
	return nil
}

// constraintError converts storage constraint violations of a user write.
// A unique violation means a concurrent write won the race: report which field it took.
func (repo *userRepository) constraintError(ctx context.Context, err error, usr user.User) (error, bool) {
	switch database.TranslateError(err) {
	case database.ErrDuplicate:
		if uErr := repo.CheckUniqueness(ctx, usr.Username, usr.Email, usr.ID); uErr != nil {
			return uErr, true
		}
		return errUserExists, true
	case database.ErrReferenced:
		return user.ErrInvalidRole, true
	}
	return nil, false
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	rec := userRecord{
		Username:     usr.Username,
		Email:        usr.Email,
		PasswordHash: usr.PasswordHash,
		RoleID:       usr.RoleID,
		CreatedAt:    usr.CreatedAt,
	}
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(&rec).Error; err != nil {
		if cErr, ok := repo.constraintError(ctx, err, usr); ok {
			return user.User{}, cErr
		}
		return user.User{}, errors.Wrap(err, "creating user")
	}
	return repo.GetUser(ctx, user.GetFilter{ID: rec.ID})
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	res := repo.db.WithContext(ctx).
		Model(&userRecord{}).
		Where("id = ?", usr.ID).
		Updates(map[string]interface{}{
			"username":      usr.Username,
			"email":         usr.Email,
			"password_hash": usr.PasswordHash,
			"role_id":       usr.RoleID,
		})
	if err := res.Error; err != nil {
		if cErr, ok := repo.constraintError(ctx, err, usr); ok {
			return user.User{}, cErr
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if res.RowsAffected == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUser(ctx, user.GetFilter{ID: usr.ID})
}

func (repo *userRepository) DeleteUser(ctx context.Context, id int) error {
	res := repo.db.WithContext(ctx).Delete(&userRecord{}, id)
	if err := res.Error; err != nil {
		return errors.Wrap(err, "deleting user")
	}
	if res.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (repo *userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	q := repo.db.WithContext(ctx).Preload("Role")
	switch {
	case filter.ID > 0:
		q = q.Where("id = ?", filter.ID)
	case filter.Username != "":
		q = q.Where("username = ?", filter.Username)
	case filter.UsernameOrEmail != "":
		q = q.Where("(username = ? OR email = ?)", filter.UsernameOrEmail, filter.UsernameOrEmail)
	default:
		return user.User{}, user.ErrNotFound
	}

	var rec userRecord
	if err := q.First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return toUser(rec), nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var recs []userRecord
	if err := repo.db.WithContext(ctx).Preload("Role").Order("id").Find(&recs).Error; err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(recs))
	for _, rec := range recs {
		users = append(users, toUser(rec))
	}
	return users, nil
}

func (repo *userRepository) getRole(ctx context.Context, query string, arg interface{}) (user.Role, error) {
	var rec roleRecord
	if err := repo.db.WithContext(ctx).Where(query, arg).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.Role{}, user.ErrRoleNotFound
		}
		return user.Role{}, errors.Wrap(err, "getting role")
	}
	return user.Role{ID: rec.ID, Name: rec.Name}, nil
}

func (repo *userRepository) GetRoleByID(ctx context.Context, id int) (user.Role, error) {
	return repo.getRole(ctx, "id = ?", id)
}

func (repo *userRepository) GetRoleByName(ctx context.Context, name string) (user.Role, error) {
	return repo.getRole(ctx, "name = ?", name)
}

func (repo *userRepository) QueryAllRoles(ctx context.Context) ([]user.Role, error) {
	var recs []roleRecord
	if err := repo.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, errors.Wrap(err, "querying roles")
	}
	roles := make([]user.Role, 0, len(recs))
	for _, rec := range recs {
		roles = append(roles, user.Role{ID: rec.ID, Name: rec.Name})
	}
	return roles, nil
}
