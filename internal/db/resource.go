package db

import "time"

// Resource 定义了资源模型（课程、书籍等），为目标贡献点数
// TotalTimePerUnit 以纳秒整数存储，对外序列化为 H:MM:SS
type Resource struct {
	ID               uint    `gorm:"column:resource_id;primaryKey"`
	GoalID           uint    `gorm:"index;not null"`
	ResourceType     *string `gorm:"size:50"`
	Title            string  `gorm:"size:255;not null"`
	ValuePerUnit     int     `gorm:"default:0"`
	TotalTimePerUnit *time.Duration
	ResourceLink     *string `gorm:"size:500"`
	Note             *string `gorm:"type:text"`
	CreatedAt        time.Time
	Topics           []Topic `gorm:"foreignKey:ResourceID;constraint:OnDelete:CASCADE"`
}

func (Resource) TableName() string {
	return "resources"
}
