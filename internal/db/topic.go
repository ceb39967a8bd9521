package db

import "time"

// Topic 是资源下最小的可追踪单元
// CompleteDate 仅在 IsCompleted 为 true 时有值（状态更新接口维护）
type Topic struct {
	ID              uint    `gorm:"column:topic_id;primaryKey"`
	ResourceID      uint    `gorm:"index;not null"`
	Title           string  `gorm:"size:255;not null"`
	PointMultiplier float64 `gorm:"not null"`
	IsCompleted     bool    `gorm:"default:false"`
	IsSkipped       bool    `gorm:"default:false"`
	CompleteDate    *time.Time
	CreatedAt       time.Time
}

func (Topic) TableName() string {
	return "resource_topics"
}
