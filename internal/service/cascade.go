package service

import (
	"fmt"

	"github.com/goaltracker/internal/db"
	"gorm.io/gorm"
)

// 级联删除：父实体删除时在同一事务内先删除全部子孙实体，
// 不依赖驱动是否启用外键约束。

func deleteUserTree(tx *gorm.DB, userID uint) error {
	var goalIDs []uint
	if err := tx.Model(&db.Goal{}).Where("user_id = ?", userID).Pluck("goal_id", &goalIDs).Error; err != nil {
		return fmt.Errorf("collect goals: %w", err)
	}
	if err := deleteGoalTrees(tx, goalIDs); err != nil {
		return err
	}
	if err := tx.Delete(&db.User{}, userID).Error; err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func deleteGoalTrees(tx *gorm.DB, goalIDs []uint) error {
	if len(goalIDs) == 0 {
		return nil
	}

	var resourceIDs []uint
	if err := tx.Model(&db.Resource{}).Where("goal_id IN ?", goalIDs).Pluck("resource_id", &resourceIDs).Error; err != nil {
		return fmt.Errorf("collect resources: %w", err)
	}
	if err := deleteResourceTrees(tx, resourceIDs); err != nil {
		return err
	}
	if err := tx.Where("goal_id IN ?", goalIDs).Delete(&db.Goal{}).Error; err != nil {
		return fmt.Errorf("delete goals: %w", err)
	}
	return nil
}

func deleteResourceTrees(tx *gorm.DB, resourceIDs []uint) error {
	if len(resourceIDs) == 0 {
		return nil
	}

	if err := tx.Where("resource_id IN ?", resourceIDs).Delete(&db.Topic{}).Error; err != nil {
		return fmt.Errorf("delete topics: %w", err)
	}
	if err := tx.Where("resource_id IN ?", resourceIDs).Delete(&db.Resource{}).Error; err != nil {
		return fmt.Errorf("delete resources: %w", err)
	}
	return nil
}
