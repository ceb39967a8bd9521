package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goaltracker/internal/db"
	"github.com/goaltracker/internal/patch"
	"github.com/goaltracker/internal/progress"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GoalService 负责目标的增删改查以及进度明细视图
type GoalService struct {
	db  *gorm.DB
	log *zap.Logger
}

// GoalInput 定义创建目标时可配置字段，InitialValue 缺省为 0
type GoalInput struct {
	UserID       uint
	Title        string
	Description  *string
	RewardType   *string
	TargetValue  *float64
	InitialValue *float64
	DomainName   *string
}

// GoalPatch describes a partial goal update.
type GoalPatch struct {
	Title        patch.Field[string]  `json:"title"`
	Description  patch.Field[string]  `json:"description"`
	RewardType   patch.Field[string]  `json:"reward_type"`
	TargetValue  patch.Field[float64] `json:"target_value"`
	InitialValue patch.Field[float64] `json:"initial_value"`
	DomainName   patch.Field[string]  `json:"domain_name"`
}

// NewGoalService 构造 GoalService
func NewGoalService(gdb *gorm.DB, log *zap.Logger) *GoalService {
	return &GoalService{db: gdb, log: log.Named("goals")}
}

// Create 新建目标，所属用户必须存在
func (s *GoalService) Create(ctx context.Context, input GoalInput) (*db.Goal, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, validationError("title is required")
	}
	if err := ensureExists(ctx, s.db, &db.User{}, input.UserID, ErrUserNotFound); err != nil {
		return nil, err
	}

	goal := db.Goal{
		UserID:      input.UserID,
		Title:       title,
		Description: input.Description,
		RewardType:  trimmed(input.RewardType),
		TargetValue: input.TargetValue,
		DomainName:  trimmed(input.DomainName),
	}
	if input.InitialValue != nil {
		goal.InitialValue = *input.InitialValue
	}

	if err := s.db.WithContext(ctx).Create(&goal).Error; err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}

	s.log.Debug("goal created", zap.Uint("goal_id", goal.ID), zap.Uint("user_id", goal.UserID))
	return &goal, nil
}

// Get 根据 ID 获取目标
func (s *GoalService) Get(ctx context.Context, id uint) (*db.Goal, error) {
	var goal db.Goal
	if err := s.db.WithContext(ctx).First(&goal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return &goal, nil
}

// ListByUser returns the user's goals in insertion order. Unknown users yield an empty list.
func (s *GoalService) ListByUser(ctx context.Context, userID uint) ([]db.Goal, error) {
	goals := make([]db.Goal, 0)
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("goal_id ASC").
		Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// ListDetails loads every goal of the user with its resources and topics and
// returns the aggregated progress view of each one.
func (s *GoalService) ListDetails(ctx context.Context, userID uint) ([]progress.GoalDetail, error) {
	goals := make([]db.Goal, 0)
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Resources", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("resource_id ASC")
		}).
		Preload("Resources.Topics", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("topic_id ASC")
		}).
		Order("goal_id ASC").
		Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("load goal details: %w", err)
	}

	return progress.AggregateAll(goals), nil
}

// Update applies the fields present in p.
func (s *GoalService) Update(ctx context.Context, id uint, p GoalPatch) (*db.Goal, error) {
	goal, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Title.HasValue() && strings.TrimSpace(p.Title.Value) == "" {
		return nil, validationError("title must not be empty")
	}

	mergeGoal(goal, p)

	if err := s.db.WithContext(ctx).Save(goal).Error; err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return goal, nil
}

// Delete 删除目标及其资源与主题
func (s *GoalService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteGoalTrees(tx, []uint{id})
	}); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}

	s.log.Debug("goal deleted", zap.Uint("goal_id", id))
	return nil
}

func mergeGoal(goal *db.Goal, p GoalPatch) {
	if p.Title.HasValue() {
		goal.Title = strings.TrimSpace(p.Title.Value)
	}
	p.Description.ApplyPtr(&goal.Description)
	p.RewardType.ApplyPtr(&goal.RewardType)
	p.TargetValue.ApplyPtr(&goal.TargetValue)
	p.InitialValue.Apply(&goal.InitialValue)
	p.DomainName.ApplyPtr(&goal.DomainName)
}

// ensureExists returns notFound when no row of model has the given primary key.
func ensureExists(ctx context.Context, gdb *gorm.DB, model any, id uint, notFound error) error {
	var count int64
	if err := gdb.WithContext(ctx).Model(model).Where(primaryKeyColumn(model)+" = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check parent: %w", err)
	}
	if count == 0 {
		return notFound
	}
	return nil
}

func primaryKeyColumn(model any) string {
	switch model.(type) {
	case *db.User:
		return "user_id"
	case *db.Goal:
		return "goal_id"
	case *db.Resource:
		return "resource_id"
	default:
		return "topic_id"
	}
}
