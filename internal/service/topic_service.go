package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goaltracker/internal/db"
	"github.com/goaltracker/internal/patch"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultPointMultiplier = 1.0

// TopicService 负责主题的增删改查与完成状态维护
type TopicService struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

// TopicInput 定义创建主题时可配置字段，PointMultiplier 缺省为 1
type TopicInput struct {
	Title           string
	PointMultiplier *float64
	IsCompleted     bool
	IsSkipped       bool
	CompleteDate    *time.Time
}

// TopicPatch describes a general partial topic update.
type TopicPatch struct {
	Title           patch.Field[string]    `json:"title"`
	PointMultiplier patch.Field[float64]   `json:"point_multiplier"`
	IsCompleted     patch.Field[bool]      `json:"is_completed"`
	IsSkipped       patch.Field[bool]      `json:"is_skipped"`
	CompleteDate    patch.Field[time.Time] `json:"complete_date"`
}

// TopicStatusPatch only touches the completion and skip flags.
type TopicStatusPatch struct {
	IsCompleted patch.Field[bool] `json:"is_completed"`
	IsSkipped   patch.Field[bool] `json:"is_skipped"`
}

// NewTopicService 构造 TopicService
func NewTopicService(gdb *gorm.DB, log *zap.Logger) *TopicService {
	return &TopicService{db: gdb, log: log.Named("topics"), now: time.Now}
}

// Create 新建主题，所属资源必须存在
func (s *TopicService) Create(ctx context.Context, resourceID uint, input TopicInput) (*db.Topic, error) {
	topic, err := s.buildTopic(resourceID, input)
	if err != nil {
		return nil, err
	}
	if err := ensureExists(ctx, s.db, &db.Resource{}, resourceID, ErrResourceNotFound); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&topic).Error; err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}

	s.log.Debug("topic created", zap.Uint("topic_id", topic.ID), zap.Uint("resource_id", resourceID))
	return &topic, nil
}

// BulkCreate 在单个事务内为同一资源批量创建主题，任一条失败则全部回滚
func (s *TopicService) BulkCreate(ctx context.Context, resourceID uint, inputs []TopicInput) ([]db.Topic, error) {
	topics := make([]db.Topic, 0, len(inputs))
	for i, input := range inputs {
		topic, err := s.buildTopic(resourceID, input)
		if err != nil {
			return nil, fmt.Errorf("topic %d: %w", i, err)
		}
		topics = append(topics, topic)
	}
	if err := ensureExists(ctx, s.db, &db.Resource{}, resourceID, ErrResourceNotFound); err != nil {
		return nil, err
	}
	if len(topics) == 0 {
		return topics, nil
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&topics).Error
	}); err != nil {
		return nil, fmt.Errorf("bulk create topics: %w", err)
	}

	s.log.Debug("topics created", zap.Int("count", len(topics)), zap.Uint("resource_id", resourceID))
	return topics, nil
}

// Get 根据 ID 获取主题
func (s *TopicService) Get(ctx context.Context, id uint) (*db.Topic, error) {
	var topic db.Topic
	if err := s.db.WithContext(ctx).First(&topic, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("get topic: %w", err)
	}
	return &topic, nil
}

// ListByResource returns the resource's topics in insertion order.
func (s *TopicService) ListByResource(ctx context.Context, resourceID uint) ([]db.Topic, error) {
	topics := make([]db.Topic, 0)
	if err := s.db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Order("topic_id ASC").
		Find(&topics).Error; err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return topics, nil
}

// Update applies the fields present in p. When is_completed changes and no
// complete_date is supplied, the completion date follows the status rule of UpdateStatus.
func (s *TopicService) Update(ctx context.Context, id uint, p TopicPatch) (*db.Topic, error) {
	topic, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Title.HasValue() && strings.TrimSpace(p.Title.Value) == "" {
		return nil, validationError("title must not be empty")
	}
	if p.PointMultiplier.HasValue() && p.PointMultiplier.Value < 0 {
		return nil, validationError("point_multiplier must not be negative")
	}

	if p.Title.HasValue() {
		topic.Title = strings.TrimSpace(p.Title.Value)
	}
	p.PointMultiplier.Apply(&topic.PointMultiplier)
	p.IsSkipped.Apply(&topic.IsSkipped)
	if p.IsCompleted.HasValue() {
		s.setCompleted(topic, p.IsCompleted.Value)
	}
	p.CompleteDate.ApplyPtr(&topic.CompleteDate)

	if err := s.db.WithContext(ctx).Save(topic).Error; err != nil {
		return nil, fmt.Errorf("update topic: %w", err)
	}
	return topic, nil
}

// UpdateStatus changes only the completion and skip flags. Completing a topic
// stamps complete_date with the current time; un-completing clears it.
func (s *TopicService) UpdateStatus(ctx context.Context, id uint, p TopicStatusPatch) (*db.Topic, error) {
	topic, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.IsCompleted.HasValue() {
		s.setCompleted(topic, p.IsCompleted.Value)
	}
	p.IsSkipped.Apply(&topic.IsSkipped)

	if err := s.db.WithContext(ctx).
		Model(topic).
		Select("is_completed", "is_skipped", "complete_date").
		Updates(topic).Error; err != nil {
		return nil, fmt.Errorf("update topic status: %w", err)
	}
	return topic, nil
}

// Delete 删除主题
func (s *TopicService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&db.Topic{}, id).Error; err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	s.log.Debug("topic deleted", zap.Uint("topic_id", id))
	return nil
}

func (s *TopicService) buildTopic(resourceID uint, input TopicInput) (db.Topic, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return db.Topic{}, validationError("title is required")
	}
	multiplier := defaultPointMultiplier
	if input.PointMultiplier != nil {
		multiplier = *input.PointMultiplier
	}
	if multiplier < 0 {
		return db.Topic{}, validationError("point_multiplier must not be negative")
	}

	topic := db.Topic{
		ResourceID:      resourceID,
		Title:           title,
		PointMultiplier: multiplier,
		IsSkipped:       input.IsSkipped,
	}
	s.setCompleted(&topic, input.IsCompleted)
	if input.CompleteDate != nil {
		topic.CompleteDate = input.CompleteDate
	}
	return topic, nil
}

// setCompleted applies a completion transition: false->true stamps the date,
// true->false clears it, no change keeps it.
func (s *TopicService) setCompleted(topic *db.Topic, completed bool) {
	switch {
	case completed && !topic.IsCompleted:
		now := s.now()
		topic.CompleteDate = &now
	case !completed && topic.IsCompleted:
		topic.CompleteDate = nil
	}
	topic.IsCompleted = completed
}
