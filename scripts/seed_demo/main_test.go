package main

import (
	"context"
	"testing"

	"github.com/goaltracker/internal/db"
	"github.com/goaltracker/internal/service"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file:demo-seed?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return gdb
}

func TestSeedDemoBuildsGoalTreeOnce(t *testing.T) {
	gdb := setupSeedTestDB(t)
	ctx := context.Background()
	log := zaptest.NewLogger(t)

	user, err := seedDemo(ctx, gdb, log)
	if err != nil {
		t.Fatalf("seedDemo returned error: %v", err)
	}

	details, err := service.NewGoalService(gdb, log).ListDetails(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListDetails returned error: %v", err)
	}
	if len(details) != len(demoGoals) {
		t.Fatalf("expected %d goals, got %d", len(demoGoals), len(details))
	}

	// Learn Go: 4*5 + 5*10 = 70 points, 2*5 + 1*10 = 20 completed.
	learn := details[0]
	if learn.GoalsTotalPoints != 70 || learn.CompletedPointsGoal != 20 {
		t.Fatalf("unexpected aggregation for %q: %+v", learn.Title, learn)
	}
	if learn.Resources[0].TotalTimePerUnit == nil || *learn.Resources[0].TotalTimePerUnit != "0:30:00" {
		t.Fatalf("unexpected time span: %v", learn.Resources[0].TotalTimePerUnit)
	}

	again, err := seedDemo(ctx, gdb, log)
	if err != nil {
		t.Fatalf("second seedDemo returned error: %v", err)
	}
	if again.ID != user.ID {
		t.Fatalf("expected existing demo user %d, got %d", user.ID, again.ID)
	}
	var goals int64
	gdb.Model(&db.Goal{}).Count(&goals)
	if goals != int64(len(demoGoals)) {
		t.Fatalf("reseeding must not duplicate goals, got %d", goals)
	}
}
