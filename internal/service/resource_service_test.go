package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goaltracker/internal/patch"
)

func TestResourceServiceCreateParsesTimeSpanLeniently(t *testing.T) {
	svc, cleanup := setupServiceTestDB(t)
	defer cleanup()
	ctx := context.Background()

	user := svc.seedUser(t, "res@example.com")
	goal := svc.seedGoal(t, user.ID, 0, 10)

	tests := []struct {
		name  string
		input *string
		want  *time.Duration
	}{
		{name: "clock", input: strPtr("1:30:00"), want: durationPtr(90 * time.Minute)},
		{name: "minutes", input: strPtr("45 minutes"), want: durationPtr(45 * time.Minute)},
		{name: "garbage stored as null", input: strPtr("banana"), want: nil},
		{name: "empty stored as null", input: strPtr(""), want: nil},
		{name: "absent", input: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resource, err := svc.resources.Create(ctx, ResourceInput{GoalID: goal.ID, Title: "Video course", TotalTimePerUnit: tt.input})
			if err != nil {
				t.Fatalf("Create returned error: %v", err)
			}

			reloaded, err := svc.resources.Get(ctx, resource.ID)
			if err != nil {
				t.Fatalf("Get returned error: %v", err)
			}
			switch {
			case tt.want == nil && reloaded.TotalTimePerUnit != nil:
				t.Fatalf("expected null duration, got %v", *reloaded.TotalTimePerUnit)
			case tt.want != nil && (reloaded.TotalTimePerUnit == nil || *reloaded.TotalTimePerUnit != *tt.want):
				t.Fatalf("expected %v, got %v", *tt.want, reloaded.TotalTimePerUnit)
			}
			if reloaded.ValuePerUnit != 0 {
				t.Fatalf("expected default value_per_unit 0, got %d", reloaded.ValuePerUnit)
			}
		})
	}
}

func TestResourceServiceCreateValidation(t *testing.T) {
	svc, cleanup := setupServiceTestDB(t)
	defer cleanup()
	ctx := context.Background()

	negative := -3
	if _, err := svc.resources.Create(ctx, ResourceInput{GoalID: 1, Title: "Book", ValuePerUnit: &negative}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for negative value_per_unit, got %v", err)
	}
	if _, err := svc.resources.Create(ctx, ResourceInput{GoalID: 1, Title: "Book"}); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("expected goal not found, got %v", err)
	}
}

func TestResourceServiceRejectsUnsafeLinks(t *testing.T) {
	svc, cleanup := setupServiceTestDB(t)
	defer cleanup()
	ctx := context.Background()

	user := svc.seedUser(t, "links@example.com")
	goal := svc.seedGoal(t, user.ID, 0, 10)

	accepted := []string{"https://go.dev/tour", "http://example.com/a?b=c&d=e", "www.udemy.com/course/go", "mailto:teacher@example.com", ""}
	for _, link := range accepted {
		resource, err := svc.resources.Create(ctx, ResourceInput{GoalID: goal.ID, Title: "Course", ResourceLink: strPtr(link)})
		if err != nil {
			t.Fatalf("Create with link %q returned error: %v", link, err)
		}
		if resource.ResourceLink == nil || *resource.ResourceLink != link {
			t.Fatalf("link must be stored as sent, got %v", resource.ResourceLink)
		}
	}

	rejected := []string{"javascript:alert(1)", " JavaScript:alert(1)", "data:text/html,<script>alert(1)</script>", "vbscript:msgbox(1)"}
	for _, link := range rejected {
		if _, err := svc.resources.Create(ctx, ResourceInput{GoalID: goal.ID, Title: "Course", ResourceLink: strPtr(link)}); !errors.Is(err, ErrValidation) {
			t.Fatalf("Create with link %q: expected validation error, got %v", link, err)
		}
	}

	resource, err := svc.resources.Create(ctx, ResourceInput{GoalID: goal.ID, Title: "Book", ResourceLink: strPtr("https://go.dev/doc")})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := svc.resources.Update(ctx, resource.ID, ResourcePatch{ResourceLink: patch.Of("javascript:void(0)")}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error on update, got %v", err)
	}
	reloaded, err := svc.resources.Get(ctx, resource.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if reloaded.ResourceLink == nil || *reloaded.ResourceLink != "https://go.dev/doc" {
		t.Fatalf("rejected update must leave the link unchanged, got %v", reloaded.ResourceLink)
	}
}

func TestResourceServiceUpdate(t *testing.T) {
	svc, cleanup := setupServiceTestDB(t)
	defer cleanup()
	ctx := context.Background()

	user := svc.seedUser(t, "resupdate@example.com")
	goal := svc.seedGoal(t, user.ID, 0, 10)
	resource, err := svc.resources.Create(ctx, ResourceInput{
		GoalID:           goal.ID,
		Title:            "Course",
		TotalTimePerUnit: strPtr("2 hours"),
		Note:             strPtr("watch at 2x, <b> tags stay"),
	})
	if err != nil {
		t.Fatalf("failed to create resource: %v", err)
	}

	updated, err := svc.resources.Update(ctx, resource.ID, ResourcePatch{ValuePerUnit: patch.Of(4)})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.ValuePerUnit != 4 || updated.Title != "Course" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if updated.TotalTimePerUnit == nil || *updated.TotalTimePerUnit != 2*time.Hour {
		t.Fatalf("time span must stay unchanged, got %v", updated.TotalTimePerUnit)
	}
	if updated.Note == nil || *updated.Note != "watch at 2x, <b> tags stay" {
		t.Fatalf("note must stay unchanged, got %v", updated.Note)
	}

	updated, err = svc.resources.Update(ctx, resource.ID, ResourcePatch{TotalTimePerUnit: patch.Of("0:20")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.TotalTimePerUnit == nil || *updated.TotalTimePerUnit != 20*time.Minute {
		t.Fatalf("expected 20m, got %v", updated.TotalTimePerUnit)
	}

	updated, err = svc.resources.Update(ctx, resource.ID, ResourcePatch{TotalTimePerUnit: patch.Of("soon")})
	if err != nil {
		t.Fatalf("unparseable time span must not fail the update, got %v", err)
	}
	if updated.TotalTimePerUnit != nil {
		t.Fatalf("unparseable time span must clear the field, got %v", *updated.TotalTimePerUnit)
	}

	if _, err := svc.resources.Update(ctx, resource.ID, ResourcePatch{ValuePerUnit: patch.Of(-1)}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.resources.Update(ctx, 9999, ResourcePatch{}); !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expected resource not found, got %v", err)
	}
}

func TestResourceServiceDeleteCascadesTopics(t *testing.T) {
	svc, cleanup := setupServiceTestDB(t)
	defer cleanup()
	ctx := context.Background()

	user := svc.seedUser(t, "resdelete@example.com")
	goal := svc.seedGoal(t, user.ID, 0, 10)
	resource := svc.seedResource(t, goal.ID, 3)
	topic := svc.seedTopic(t, resource.ID, "Only", 1)

	if err := svc.resources.Delete(ctx, resource.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.topics.Get(ctx, topic.ID); !errors.Is(err, ErrTopicNotFound) {
		t.Fatalf("expected topic removed, got %v", err)
	}
	if _, err := svc.goals.Get(ctx, goal.ID); err != nil {
		t.Fatalf("parent goal must survive, got %v", err)
	}
	if err := svc.resources.Delete(ctx, resource.ID); !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func durationPtr(d time.Duration) *time.Duration { return &d }
