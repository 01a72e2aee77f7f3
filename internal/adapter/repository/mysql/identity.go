package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// IdentityRepository is a read-only view over the shared identity tables.
// This service never writes them; user and role management is owned by the
// identity service sharing the database.
type IdentityRepository struct{ db *gorm.DB }

func NewIdentityRepository(db *gorm.DB) *IdentityRepository { return &IdentityRepository{db: db} }

type userRow struct {
	ID         uint64  `gorm:"primaryKey;column:id"`
	Email      string  `gorm:"column:email"`
	Phone      string  `gorm:"column:phone"`
	FullName   string  `gorm:"column:full_name"`
	ReferrerID *uint64 `gorm:"column:referrer_id"`
}

func (userRow) TableName() string { return "users" }

type userRoleRow struct {
	UserID   uint64 `gorm:"column:user_id"`
	RoleCode string `gorm:"column:role_code"`
}

func (userRoleRow) TableName() string { return "user_roles" }

type rolePermissionRow struct {
	RoleCode       string `gorm:"column:role_code"`
	PermissionCode string `gorm:"column:permission_code"`
}

func (rolePermissionRow) TableName() string { return "role_permissions" }

func (r *IdentityRepository) GetUserRoles(ctx context.Context, userID uint64) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).Model(&userRoleRow{}).
		Where("user_id = ?", userID).
		Pluck("role_code", &out).Error
	return out, err
}

func (r *IdentityRepository) GetUserPermissions(ctx context.Context, userID uint64) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).Model(&rolePermissionRow{}).
		Distinct().
		Where("role_code IN (?)", r.db.Model(&userRoleRow{}).Select("role_code").Where("user_id = ?", userID)).
		Pluck("permission_code", &out).Error
	return out, err
}

func (r *IdentityRepository) HasPermission(ctx context.Context, userID uint64, code string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&rolePermissionRow{}).
		Where("permission_code = ?", code).
		Where("role_code IN (?)", r.db.Model(&userRoleRow{}).Select("role_code").Where("user_id = ?", userID)).
		Count(&n).Error
	return n > 0, err
}

func (r *IdentityRepository) GetReferrerID(ctx context.Context, userID uint64) (*uint64, error) {
	var row userRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return row.ReferrerID, nil
}

func (r *IdentityRepository) SearchUserIDs(ctx context.Context, query string) ([]uint64, error) {
	like := "%" + query + "%"
	var out []uint64
	err := r.db.WithContext(ctx).Model(&userRow{}).
		Where("email LIKE ? OR phone LIKE ? OR full_name LIKE ?", like, like, like).
		Pluck("id", &out).Error
	return out, err
}
