package db

import "time"

// Goal 定义了目标模型
// TargetValue/InitialValue 描述进度区间，InitialValue 默认 0
type Goal struct {
	ID           uint    `gorm:"column:goal_id;primaryKey"`
	UserID       uint    `gorm:"index;not null"`
	Title        string  `gorm:"size:255;not null"`
	Description  *string `gorm:"type:text"`
	RewardType   *string `gorm:"size:100"`
	TargetValue  *float64
	InitialValue float64 `gorm:"default:0"`
	DomainName   *string `gorm:"size:100"`
	CreatedAt    time.Time
	Resources    []Resource `gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE"`
}

func (Goal) TableName() string {
	return "goals"
}
