package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goaltracker/internal/db"
	"github.com/goaltracker/internal/patch"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var validate = validator.New()

// UserService 负责用户账号的增删改查与密码校验
type UserService struct {
	db  *gorm.DB
	log *zap.Logger
}

// UserInput 定义注册时可配置字段
type UserInput struct {
	Name       string
	Email      string
	Phone      *string
	Occupation *string
	Password   string
}

// UserPatch 描述部分更新，未出现的字段保持不变（密码走单独接口）
type UserPatch struct {
	Name       patch.Field[string] `json:"name"`
	Email      patch.Field[string] `json:"email"`
	Phone      patch.Field[string] `json:"phone"`
	Occupation patch.Field[string] `json:"occupation"`
}

// NewUserService 构造 UserService
func NewUserService(gdb *gorm.DB, log *zap.Logger) *UserService {
	return &UserService{db: gdb, log: log.Named("users")}
}

// Create registers a user. The email must not be taken; the password is stored as a bcrypt hash.
func (s *UserService) Create(ctx context.Context, input UserInput) (*db.User, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" {
		return nil, validationError("name is required")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if input.Password == "" {
		return nil, validationError("password is required")
	}

	taken, err := s.emailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailRegistered
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := db.User{
		Name:       name,
		Email:      email,
		Phone:      trimmed(input.Phone),
		Occupation: trimmed(input.Occupation),
		Password:   hashed,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// 并发注册时唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailRegistered
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Debug("user created", zap.Uint("user_id", user.ID))
	return &user, nil
}

// Authenticate 校验邮箱与密码，失败统一返回 ErrInvalidCredentials
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*db.User, error) {
	var user db.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// Get 根据 ID 获取用户
func (s *UserService) Get(ctx context.Context, id uint) (*db.User, error) {
	var user db.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// Update applies the fields present in p. A changed email is checked for uniqueness again.
func (s *UserService) Update(ctx context.Context, id uint, p UserPatch) (*db.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Name.HasValue() && strings.TrimSpace(p.Name.Value) == "" {
		return nil, validationError("name must not be empty")
	}
	if p.Email.HasValue() {
		email := normalizeEmail(p.Email.Value)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		if email != user.Email {
			taken, err := s.emailTaken(ctx, email)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrEmailRegistered
			}
		}
		p.Email.Value = email
	}

	mergeUser(user, p)

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailRegistered
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// ChangePassword replaces the password after verifying the old one.
func (s *UserService) ChangePassword(ctx context.Context, id uint, oldPassword, newPassword string) (*db.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return nil, ErrIncorrectPassword
	}
	if newPassword == "" {
		return nil, validationError("new password is required")
	}

	hashed, err := hashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	user.Password = hashed

	if err := s.db.WithContext(ctx).Model(user).Update("password", hashed).Error; err != nil {
		return nil, fmt.Errorf("change password: %w", err)
	}

	s.log.Debug("password changed", zap.Uint("user_id", user.ID))
	return user, nil
}

// Delete 删除用户及其全部目标、资源与主题
func (s *UserService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteUserTree(tx, id)
	}); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.log.Debug("user deleted", zap.Uint("user_id", id))
	return nil
}

func mergeUser(user *db.User, p UserPatch) {
	if p.Name.HasValue() {
		user.Name = strings.TrimSpace(p.Name.Value)
	}
	p.Email.Apply(&user.Email)
	p.Phone.ApplyPtr(&user.Phone)
	p.Occupation.ApplyPtr(&user.Occupation)
}

func (s *UserService) emailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&db.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return count > 0, nil
}

func validateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return validationError("email must be a valid email address")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", validationError("password must be at most 72 bytes")
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}
