package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/goaltracker/internal/config"
	"github.com/goaltracker/internal/db"
	"github.com/goaltracker/internal/logger"
	"github.com/goaltracker/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	demoEmail    = "demo@goaltracker.local"
	demoPassword = "demo123"
)

type demoResource struct {
	title        string
	kind         string
	valuePerUnit int
	timePerUnit  string
	topics       []string
	completed    int
}

type demoGoal struct {
	title       string
	rewardType  string
	initial     float64
	target      float64
	description string
	resources   []demoResource
}

var demoGoals = []demoGoal{
	{
		title:       "Learn Go",
		rewardType:  "skill level",
		initial:     0,
		target:      100,
		description: "From syntax to production services",
		resources: []demoResource{
			{
				title: "A Tour of Go", kind: "course", valuePerUnit: 5, timePerUnit: "30 minutes",
				topics:    []string{"Basics", "Methods and interfaces", "Generics", "Concurrency"},
				completed: 2,
			},
			{
				title: "The Go Programming Language", kind: "book", valuePerUnit: 10, timePerUnit: "2 hours",
				topics:    []string{"Program structure", "Composite types", "Functions", "Goroutines and channels", "Testing"},
				completed: 1,
			},
		},
	},
	{
		title:       "Run a half marathon",
		rewardType:  "km",
		initial:     5,
		target:      21,
		description: "Build up weekly mileage",
		resources: []demoResource{
			{
				title: "12 week plan", kind: "plan", valuePerUnit: 4, timePerUnit: "1:00",
				topics:    []string{"Week 1", "Week 2", "Week 3", "Week 4"},
				completed: 3,
			},
		},
	},
}

// 演示数据生成器
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("配置加载失败:", err)
	}
	zlog := logger.New(cfg.Env)
	defer zlog.Sync()

	gdb, err := db.Open(cfg)
	if err != nil {
		log.Fatal("数据库初始化失败:", err)
	}
	defer db.Close(gdb)

	user, err := seedDemo(context.Background(), gdb, zlog)
	if err != nil {
		log.Fatal("演示数据生成失败:", err)
	}

	fmt.Println("演示数据生成完成！")
	fmt.Printf("用户: %s (密码: %s, ID: %d)\n", demoEmail, demoPassword, user.ID)
}

// seedDemo 通过服务层写入一套完整的目标树；演示用户已存在时直接返回该用户
func seedDemo(ctx context.Context, gdb *gorm.DB, zlog *zap.Logger) (*db.User, error) {
	users := service.NewUserService(gdb, zlog)
	goals := service.NewGoalService(gdb, zlog)
	resources := service.NewResourceService(gdb, zlog)
	topics := service.NewTopicService(gdb, zlog)

	user, err := users.Create(ctx, service.UserInput{
		Name:     "Demo User",
		Email:    demoEmail,
		Password: demoPassword,
	})
	if errors.Is(err, service.ErrConflict) {
		zlog.Info("demo user already exists, skipping")
		return users.Authenticate(ctx, demoEmail, demoPassword)
	}
	if err != nil {
		return nil, err
	}

	for _, g := range demoGoals {
		initial, target, desc, reward := g.initial, g.target, g.description, g.rewardType
		goal, err := goals.Create(ctx, service.GoalInput{
			UserID:       user.ID,
			Title:        g.title,
			Description:  &desc,
			RewardType:   &reward,
			TargetValue:  &target,
			InitialValue: &initial,
		})
		if err != nil {
			return nil, fmt.Errorf("seed goal %q: %w", g.title, err)
		}

		for _, r := range g.resources {
			kind, span, value := r.kind, r.timePerUnit, r.valuePerUnit
			resource, err := resources.Create(ctx, service.ResourceInput{
				GoalID:           goal.ID,
				ResourceType:     &kind,
				Title:            r.title,
				ValuePerUnit:     &value,
				TotalTimePerUnit: &span,
			})
			if err != nil {
				return nil, fmt.Errorf("seed resource %q: %w", r.title, err)
			}

			inputs := make([]service.TopicInput, 0, len(r.topics))
			for i, title := range r.topics {
				inputs = append(inputs, service.TopicInput{Title: title, IsCompleted: i < r.completed})
			}
			if _, err := topics.BulkCreate(ctx, resource.ID, inputs); err != nil {
				return nil, fmt.Errorf("seed topics for %q: %w", r.title, err)
			}
		}
	}

	zlog.Info("demo data seeded", zap.Uint("user_id", user.ID), zap.Int("goals", len(demoGoals)))
	return user, nil
}
