package db

import "time"

// User 定义了用户模型，删除用户时级联删除其目标
type User struct {
	ID         uint    `gorm:"column:user_id;primaryKey"`
	Name       string  `gorm:"size:100;not null"`
	Email      string  `gorm:"size:150;uniqueIndex;not null"`
	Phone      *string `gorm:"size:20"`
	Occupation *string `gorm:"size:100"`
	// Password holds a bcrypt hash, never the plain credential.
	Password  string `gorm:"size:255;not null"`
	CreatedAt time.Time
	Goals     []Goal `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName keeps plural snake_case table names stable across drivers.
func (User) TableName() string {
	return "users"
}
