package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goaltracker/internal/db"
	"github.com/goaltracker/internal/service"
)

type goalPayload struct {
	GoalID       uint      `json:"goal_id"`
	UserID       uint      `json:"user_id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description"`
	RewardType   *string   `json:"reward_type"`
	TargetValue  *float64  `json:"target_value"`
	InitialValue float64   `json:"initial_value"`
	DomainName   *string   `json:"domain_name"`
	CreatedAt    time.Time `json:"created_at"`
}

type goalCreatePayload struct {
	UserID       uint     `json:"user_id" binding:"required"`
	Title        string   `json:"title" binding:"required"`
	Description  *string  `json:"description"`
	RewardType   *string  `json:"reward_type"`
	TargetValue  *float64 `json:"target_value"`
	InitialValue *float64 `json:"initial_value"`
	DomainName   *string  `json:"domain_name"`
}

func goalToPayload(goal *db.Goal) goalPayload {
	return goalPayload{
		GoalID:       goal.ID,
		UserID:       goal.UserID,
		Title:        goal.Title,
		Description:  goal.Description,
		RewardType:   goal.RewardType,
		TargetValue:  goal.TargetValue,
		InitialValue: goal.InitialValue,
		DomainName:   goal.DomainName,
		CreatedAt:    goal.CreatedAt,
	}
}

// CreateGoal 新建目标
func (a *API) CreateGoal(c *gin.Context) {
	var payload goalCreatePayload
	if !bindJSON(c, &payload, "Invalid goal payload") {
		return
	}

	goal, err := a.goals.Create(c.Request.Context(), service.GoalInput{
		UserID:       payload.UserID,
		Title:        payload.Title,
		Description:  payload.Description,
		RewardType:   payload.RewardType,
		TargetValue:  payload.TargetValue,
		InitialValue: payload.InitialValue,
		DomainName:   payload.DomainName,
	})
	if err != nil {
		a.respondServiceError(c, err, "Failed to create goal")
		return
	}
	c.JSON(http.StatusOK, goalToPayload(goal))
}

// ListGoalsByUser 返回用户的全部目标
func (a *API) ListGoalsByUser(c *gin.Context) {
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}

	goals, err := a.goals.ListByUser(c.Request.Context(), userID)
	if err != nil {
		a.respondServiceError(c, err, "Failed to list goals")
		return
	}

	items := make([]goalPayload, 0, len(goals))
	for i := range goals {
		items = append(items, goalToPayload(&goals[i]))
	}
	c.JSON(http.StatusOK, items)
}

// ListGoalDetails 返回带资源、主题与进度计算结果的目标列表
func (a *API) ListGoalDetails(c *gin.Context) {
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}

	details, err := a.goals.ListDetails(c.Request.Context(), userID)
	if err != nil {
		a.respondServiceError(c, err, "Failed to load goal details")
		return
	}
	c.JSON(http.StatusOK, details)
}

// GetGoal 根据 ID 返回目标
func (a *API) GetGoal(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	goal, err := a.goals.Get(c.Request.Context(), id)
	if err != nil {
		a.respondServiceError(c, err, "Failed to load goal")
		return
	}
	c.JSON(http.StatusOK, goalToPayload(goal))
}

// UpdateGoal 部分更新目标
func (a *API) UpdateGoal(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var payload service.GoalPatch
	if !bindJSON(c, &payload, "Invalid goal payload") {
		return
	}

	goal, err := a.goals.Update(c.Request.Context(), id, payload)
	if err != nil {
		a.respondServiceError(c, err, "Failed to update goal")
		return
	}
	c.JSON(http.StatusOK, goalToPayload(goal))
}

// DeleteGoal 删除目标及其资源与主题
func (a *API) DeleteGoal(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := a.goals.Delete(c.Request.Context(), id); err != nil {
		a.respondServiceError(c, err, "Failed to delete goal")
		return
	}
	respondMessage(c, "Goal deleted successfully")
}
