package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goaltracker/internal/db"
	"github.com/goaltracker/internal/service"
)

type topicPayload struct {
	TopicID         uint       `json:"topic_id"`
	ResourceID      uint       `json:"resource_id"`
	Title           string     `json:"title"`
	PointMultiplier float64    `json:"point_multiplier"`
	IsCompleted     bool       `json:"is_completed"`
	IsSkipped       bool       `json:"is_skipped"`
	CompleteDate    *time.Time `json:"complete_date"`
	CreatedAt       time.Time  `json:"created_at"`
}

// topicFields 是单个主题与批量创建共用的字段
type topicFields struct {
	Title           string     `json:"title" binding:"required"`
	PointMultiplier *float64   `json:"point_multiplier" binding:"omitempty,gte=0"`
	IsCompleted     *bool      `json:"is_completed"`
	IsSkipped       *bool      `json:"is_skipped"`
	CompleteDate    *time.Time `json:"complete_date"`
}

type topicCreatePayload struct {
	ResourceID uint `json:"resource_id" binding:"required"`
	topicFields
}

type bulkTopicPayload struct {
	ResourceID uint          `json:"resource_id" binding:"required"`
	Topics     []topicFields `json:"topics" binding:"required,dive"`
}

func (f topicFields) input() service.TopicInput {
	input := service.TopicInput{
		Title:           f.Title,
		PointMultiplier: f.PointMultiplier,
		CompleteDate:    f.CompleteDate,
	}
	if f.IsCompleted != nil {
		input.IsCompleted = *f.IsCompleted
	}
	if f.IsSkipped != nil {
		input.IsSkipped = *f.IsSkipped
	}
	return input
}

func topicToPayload(topic *db.Topic) topicPayload {
	return topicPayload{
		TopicID:         topic.ID,
		ResourceID:      topic.ResourceID,
		Title:           topic.Title,
		PointMultiplier: topic.PointMultiplier,
		IsCompleted:     topic.IsCompleted,
		IsSkipped:       topic.IsSkipped,
		CompleteDate:    topic.CompleteDate,
		CreatedAt:       topic.CreatedAt,
	}
}

func topicsToPayload(topics []db.Topic) []topicPayload {
	items := make([]topicPayload, 0, len(topics))
	for i := range topics {
		items = append(items, topicToPayload(&topics[i]))
	}
	return items
}

// CreateTopic 新建主题
func (a *API) CreateTopic(c *gin.Context) {
	var payload topicCreatePayload
	if !bindJSON(c, &payload, "Invalid topic payload") {
		return
	}

	topic, err := a.topics.Create(c.Request.Context(), payload.ResourceID, payload.input())
	if err != nil {
		a.respondServiceError(c, err, "Failed to create topic")
		return
	}
	c.JSON(http.StatusOK, topicToPayload(topic))
}

// BulkCreateTopics 在一个事务内为同一资源创建多个主题，任一失败则全部不生效
func (a *API) BulkCreateTopics(c *gin.Context) {
	var payload bulkTopicPayload
	if !bindJSON(c, &payload, "Invalid bulk topic payload") {
		return
	}

	inputs := make([]service.TopicInput, 0, len(payload.Topics))
	for _, fields := range payload.Topics {
		inputs = append(inputs, fields.input())
	}

	topics, err := a.topics.BulkCreate(c.Request.Context(), payload.ResourceID, inputs)
	if err != nil {
		a.respondServiceError(c, err, "Failed to create topics")
		return
	}
	c.JSON(http.StatusOK, topicsToPayload(topics))
}

// ListTopicsByResource 返回资源下的全部主题
func (a *API) ListTopicsByResource(c *gin.Context) {
	resourceID, ok := idParam(c, "resource_id")
	if !ok {
		return
	}

	topics, err := a.topics.ListByResource(c.Request.Context(), resourceID)
	if err != nil {
		a.respondServiceError(c, err, "Failed to list topics")
		return
	}
	c.JSON(http.StatusOK, topicsToPayload(topics))
}

// GetTopic 根据 ID 返回主题
func (a *API) GetTopic(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	topic, err := a.topics.Get(c.Request.Context(), id)
	if err != nil {
		a.respondServiceError(c, err, "Failed to load topic")
		return
	}
	c.JSON(http.StatusOK, topicToPayload(topic))
}

// UpdateTopic 部分更新主题
func (a *API) UpdateTopic(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var payload service.TopicPatch
	if !bindJSON(c, &payload, "Invalid topic payload") {
		return
	}

	topic, err := a.topics.Update(c.Request.Context(), id, payload)
	if err != nil {
		a.respondServiceError(c, err, "Failed to update topic")
		return
	}
	c.JSON(http.StatusOK, topicToPayload(topic))
}

// UpdateTopicStatus 只更新完成/跳过状态，完成时间随之写入或清空
func (a *API) UpdateTopicStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var payload service.TopicStatusPatch
	if !bindJSON(c, &payload, "Invalid topic status payload") {
		return
	}

	topic, err := a.topics.UpdateStatus(c.Request.Context(), id, payload)
	if err != nil {
		a.respondServiceError(c, err, "Failed to update topic status")
		return
	}
	c.JSON(http.StatusOK, topicToPayload(topic))
}

// DeleteTopic 删除主题
func (a *API) DeleteTopic(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := a.topics.Delete(c.Request.Context(), id); err != nil {
		a.respondServiceError(c, err, "Failed to delete topic")
		return
	}
	respondMessage(c, "Topic deleted successfully")
}
