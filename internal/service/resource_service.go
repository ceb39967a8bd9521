package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goaltracker/internal/db"
	"github.com/goaltracker/internal/patch"
	"github.com/goaltracker/internal/timespan"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ResourceService 负责资源的增删改查
// TotalTimePerUnit 采用宽松解析：无法识别的时长字符串按空值保存，不向调用方报错
type ResourceService struct {
	db  *gorm.DB
	log *zap.Logger
}

// ResourceInput 定义创建资源时可配置字段
type ResourceInput struct {
	GoalID           uint
	ResourceType     *string
	Title            string
	ValuePerUnit     *int
	TotalTimePerUnit *string
	ResourceLink     *string
	Note             *string
}

// ResourcePatch describes a partial resource update.
type ResourcePatch struct {
	ResourceType     patch.Field[string] `json:"resource_type"`
	Title            patch.Field[string] `json:"title"`
	ValuePerUnit     patch.Field[int]    `json:"value_per_unit"`
	TotalTimePerUnit patch.Field[string] `json:"total_time_per_unit"`
	ResourceLink     patch.Field[string] `json:"resource_link"`
	Note             patch.Field[string] `json:"note"`
}

// NewResourceService 构造 ResourceService
func NewResourceService(gdb *gorm.DB, log *zap.Logger) *ResourceService {
	return &ResourceService{db: gdb, log: log.Named("resources")}
}

// Create 新建资源，所属目标必须存在
func (s *ResourceService) Create(ctx context.Context, input ResourceInput) (*db.Resource, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, validationError("title is required")
	}
	valuePerUnit := 0
	if input.ValuePerUnit != nil {
		valuePerUnit = *input.ValuePerUnit
	}
	if valuePerUnit < 0 {
		return nil, validationError("value_per_unit must not be negative")
	}
	link := trimmed(input.ResourceLink)
	if err := safeLink(link); err != nil {
		return nil, err
	}
	if err := ensureExists(ctx, s.db, &db.Goal{}, input.GoalID, ErrGoalNotFound); err != nil {
		return nil, err
	}

	resource := db.Resource{
		GoalID:       input.GoalID,
		ResourceType: trimmed(input.ResourceType),
		Title:        title,
		ValuePerUnit: valuePerUnit,
		ResourceLink: link,
		Note:         input.Note,
	}
	if input.TotalTimePerUnit != nil {
		resource.TotalTimePerUnit = s.parseTimeSpan(*input.TotalTimePerUnit)
	}

	if err := s.db.WithContext(ctx).Create(&resource).Error; err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	s.log.Debug("resource created", zap.Uint("resource_id", resource.ID), zap.Uint("goal_id", resource.GoalID))
	return &resource, nil
}

// Get 根据 ID 获取资源
func (s *ResourceService) Get(ctx context.Context, id uint) (*db.Resource, error) {
	var resource db.Resource
	if err := s.db.WithContext(ctx).First(&resource, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("get resource: %w", err)
	}
	return &resource, nil
}

// ListByGoal returns the goal's resources in insertion order.
func (s *ResourceService) ListByGoal(ctx context.Context, goalID uint) ([]db.Resource, error) {
	resources := make([]db.Resource, 0)
	if err := s.db.WithContext(ctx).
		Where("goal_id = ?", goalID).
		Order("resource_id ASC").
		Find(&resources).Error; err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return resources, nil
}

// Update applies the fields present in p. A supplied time span that cannot be
// parsed clears the stored value.
func (s *ResourceService) Update(ctx context.Context, id uint, p ResourcePatch) (*db.Resource, error) {
	resource, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Title.HasValue() && strings.TrimSpace(p.Title.Value) == "" {
		return nil, validationError("title must not be empty")
	}
	if p.ValuePerUnit.HasValue() && p.ValuePerUnit.Value < 0 {
		return nil, validationError("value_per_unit must not be negative")
	}
	if p.ResourceLink.HasValue() {
		p.ResourceLink.Value = strings.TrimSpace(p.ResourceLink.Value)
		if err := safeLink(&p.ResourceLink.Value); err != nil {
			return nil, err
		}
	}

	s.merge(resource, p)

	if err := s.db.WithContext(ctx).Save(resource).Error; err != nil {
		return nil, fmt.Errorf("update resource: %w", err)
	}
	return resource, nil
}

// Delete 删除资源及其主题
func (s *ResourceService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteResourceTrees(tx, []uint{id})
	}); err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}

	s.log.Debug("resource deleted", zap.Uint("resource_id", id))
	return nil
}

func (s *ResourceService) merge(resource *db.Resource, p ResourcePatch) {
	p.ResourceType.ApplyPtr(&resource.ResourceType)
	if p.Title.HasValue() {
		resource.Title = strings.TrimSpace(p.Title.Value)
	}
	p.ValuePerUnit.Apply(&resource.ValuePerUnit)
	if p.TotalTimePerUnit.Set {
		resource.TotalTimePerUnit = nil
		if p.TotalTimePerUnit.HasValue() {
			resource.TotalTimePerUnit = s.parseTimeSpan(p.TotalTimePerUnit.Value)
		}
	}
	p.ResourceLink.ApplyPtr(&resource.ResourceLink)
	p.Note.ApplyPtr(&resource.Note)
}

func (s *ResourceService) parseTimeSpan(raw string) *time.Duration {
	d := timespan.ParseBestEffort(raw)
	if d == nil && strings.TrimSpace(raw) != "" {
		s.log.Debug("ignoring unparseable time span", zap.String("value", raw))
	}
	return d
}
