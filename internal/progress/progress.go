// Package progress computes the detailed progress view of a goal from its
// resources and topics. It performs no I/O: callers load the goal tree first.
package progress

import (
	"runtime"
	"time"

	"github.com/goaltracker/internal/db"
	"github.com/goaltracker/internal/timespan"
	"golang.org/x/sync/errgroup"
)

// TopicDetail is a topic together with the points it is worth.
type TopicDetail struct {
	TopicID         uint      `json:"topic_id"`
	Title           string    `json:"title"`
	PointMultiplier float64   `json:"point_multiplier"`
	IsCompleted     bool      `json:"is_completed"`
	IsSkipped       bool      `json:"is_skipped"`
	TopicPointValue float64   `json:"topic_point_value"`
	CreatedAt       time.Time `json:"created_at"`
}

// ResourceDetail carries the point sums of a resource's topics.
type ResourceDetail struct {
	ResourceID               uint          `json:"resource_id"`
	ResourceType             *string       `json:"resource_type"`
	Title                    string        `json:"title"`
	ValuePerUnit             int           `json:"value_per_unit"`
	TotalTimePerUnit         *string       `json:"total_time_per_unit"`
	ResourceLink             *string       `json:"resource_link"`
	Note                     *string       `json:"note"`
	TotalTopicPoints         float64       `json:"total_topic_points"`
	CompletedPointsResources float64       `json:"completed_points_resources"`
	Topics                   []TopicDetail `json:"topics"`
	CreatedAt                time.Time     `json:"created_at"`
}

// GoalDetail is a goal with its aggregated progress.
type GoalDetail struct {
	GoalID                     uint             `json:"goal_id"`
	UserID                     uint             `json:"user_id"`
	Title                      string           `json:"title"`
	Description                *string          `json:"description"`
	RewardType                 *string          `json:"reward_type"`
	TargetValue                *float64         `json:"target_value"`
	InitialValue               float64          `json:"initial_value"`
	DomainName                 *string          `json:"domain_name"`
	GoalsTotalPoints           float64          `json:"goals_total_points"`
	IncrementGoalValuePerPoint float64          `json:"increment_goal_value_per_point"`
	CompletedPointsGoal        float64          `json:"completed_points_goal"`
	CurrentGoalValue           float64          `json:"current_goal_value"`
	Resources                  []ResourceDetail `json:"resources"`
	CreatedAt                  time.Time        `json:"created_at"`
}

// TopicPointValue is the number of points a topic is worth within its resource.
func TopicPointValue(valuePerUnit int, pointMultiplier float64) float64 {
	return float64(valuePerUnit) * pointMultiplier
}

// Aggregate builds the progress view of one goal. goal.Resources and each
// resource's Topics must already be loaded; their order is kept as given.
func Aggregate(goal db.Goal) GoalDetail {
	detail := GoalDetail{
		GoalID:       goal.ID,
		UserID:       goal.UserID,
		Title:        goal.Title,
		Description:  goal.Description,
		RewardType:   goal.RewardType,
		TargetValue:  goal.TargetValue,
		InitialValue: goal.InitialValue,
		DomainName:   goal.DomainName,
		Resources:    make([]ResourceDetail, 0, len(goal.Resources)),
		CreatedAt:    goal.CreatedAt,
	}

	for _, resource := range goal.Resources {
		rd := aggregateResource(resource)
		detail.GoalsTotalPoints += rd.TotalTopicPoints
		detail.CompletedPointsGoal += rd.CompletedPointsResources
		detail.Resources = append(detail.Resources, rd)
	}

	detail.IncrementGoalValuePerPoint, detail.CurrentGoalValue = interpolate(
		goal.InitialValue, targetOf(goal), detail.GoalsTotalPoints, detail.CompletedPointsGoal)

	return detail
}

// AggregateAll runs Aggregate for every goal concurrently. The result keeps the input order.
func AggregateAll(goals []db.Goal) []GoalDetail {
	details := make([]GoalDetail, len(goals))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range goals {
		g.Go(func() error {
			details[i] = Aggregate(goals[i])
			return nil
		})
	}
	_ = g.Wait()

	return details
}

func aggregateResource(resource db.Resource) ResourceDetail {
	rd := ResourceDetail{
		ResourceID:   resource.ID,
		ResourceType: resource.ResourceType,
		Title:        resource.Title,
		ValuePerUnit: resource.ValuePerUnit,
		ResourceLink: resource.ResourceLink,
		Note:         resource.Note,
		Topics:       make([]TopicDetail, 0, len(resource.Topics)),
		CreatedAt:    resource.CreatedAt,
	}
	if resource.TotalTimePerUnit != nil {
		formatted := timespan.Format(*resource.TotalTimePerUnit)
		rd.TotalTimePerUnit = &formatted
	}

	for _, topic := range resource.Topics {
		points := TopicPointValue(resource.ValuePerUnit, topic.PointMultiplier)
		rd.TotalTopicPoints += points
		// skipped topics still count; only completion gates the completed sum
		if topic.IsCompleted {
			rd.CompletedPointsResources += points
		}
		rd.Topics = append(rd.Topics, TopicDetail{
			TopicID:         topic.ID,
			Title:           topic.Title,
			PointMultiplier: topic.PointMultiplier,
			IsCompleted:     topic.IsCompleted,
			IsSkipped:       topic.IsSkipped,
			TopicPointValue: points,
			CreatedAt:       topic.CreatedAt,
		})
	}

	return rd
}

// interpolate maps completed points onto [initial, target]. A goal without
// points stays at its initial value.
func interpolate(initial, target, totalPoints, completedPoints float64) (increment, current float64) {
	if totalPoints > 0 {
		increment = (target - initial) / totalPoints
		return increment, initial + completedPoints*increment
	}
	return 0, initial
}

func targetOf(goal db.Goal) float64 {
	if goal.TargetValue == nil {
		return goal.InitialValue
	}
	return *goal.TargetValue
}
