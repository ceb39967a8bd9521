package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/goaltracker/internal/db"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServices struct {
	db        *gorm.DB
	users     *UserService
	goals     *GoalService
	resources *ResourceService
	topics    *TopicService
}

func setupServiceTestDB(t *testing.T) (*testServices, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:goal-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	log := zaptest.NewLogger(t)
	return &testServices{
			db:        gdb,
			users:     NewUserService(gdb, log),
			goals:     NewGoalService(gdb, log),
			resources: NewResourceService(gdb, log),
			topics:    NewTopicService(gdb, log),
		}, func() {
			_ = sqlDB.Close()
		}
}

func (s *testServices) seedUser(t *testing.T, email string) *db.User {
	t.Helper()
	user, err := s.users.Create(context.Background(), UserInput{Name: "Ada", Email: email, Password: "secret"})
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func (s *testServices) seedGoal(t *testing.T, userID uint, initial, target float64) *db.Goal {
	t.Helper()
	goal, err := s.goals.Create(context.Background(), GoalInput{
		UserID:       userID,
		Title:        "Finish course",
		InitialValue: &initial,
		TargetValue:  &target,
	})
	if err != nil {
		t.Fatalf("failed to seed goal: %v", err)
	}
	return goal
}

func (s *testServices) seedResource(t *testing.T, goalID uint, valuePerUnit int) *db.Resource {
	t.Helper()
	resource, err := s.resources.Create(context.Background(), ResourceInput{
		GoalID:       goalID,
		Title:        "Textbook",
		ValuePerUnit: &valuePerUnit,
	})
	if err != nil {
		t.Fatalf("failed to seed resource: %v", err)
	}
	return resource
}

func (s *testServices) seedTopic(t *testing.T, resourceID uint, title string, multiplier float64) *db.Topic {
	t.Helper()
	topic, err := s.topics.Create(context.Background(), resourceID, TopicInput{Title: title, PointMultiplier: &multiplier})
	if err != nil {
		t.Fatalf("failed to seed topic: %v", err)
	}
	return topic
}

func strPtr(v string) *string { return &v }
