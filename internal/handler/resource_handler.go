package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goaltracker/internal/db"
	"github.com/goaltracker/internal/service"
	"github.com/goaltracker/internal/timespan"
)

type resourcePayload struct {
	ResourceID       uint      `json:"resource_id"`
	GoalID           uint      `json:"goal_id"`
	ResourceType     *string   `json:"resource_type"`
	Title            string    `json:"title"`
	ValuePerUnit     int       `json:"value_per_unit"`
	TotalTimePerUnit *string   `json:"total_time_per_unit"`
	ResourceLink     *string   `json:"resource_link"`
	Note             *string   `json:"note"`
	CreatedAt        time.Time `json:"created_at"`
}

type resourceCreatePayload struct {
	GoalID           uint    `json:"goal_id" binding:"required"`
	ResourceType     *string `json:"resource_type"`
	Title            string  `json:"title" binding:"required"`
	ValuePerUnit     *int    `json:"value_per_unit" binding:"omitempty,gte=0"`
	TotalTimePerUnit *string `json:"total_time_per_unit"`
	ResourceLink     *string `json:"resource_link"`
	Note             *string `json:"note"`
}

func resourceToPayload(resource *db.Resource) resourcePayload {
	payload := resourcePayload{
		ResourceID:   resource.ID,
		GoalID:       resource.GoalID,
		ResourceType: resource.ResourceType,
		Title:        resource.Title,
		ValuePerUnit: resource.ValuePerUnit,
		ResourceLink: resource.ResourceLink,
		Note:         resource.Note,
		CreatedAt:    resource.CreatedAt,
	}
	if resource.TotalTimePerUnit != nil {
		formatted := timespan.Format(*resource.TotalTimePerUnit)
		payload.TotalTimePerUnit = &formatted
	}
	return payload
}

// CreateResource 新建资源
func (a *API) CreateResource(c *gin.Context) {
	var payload resourceCreatePayload
	if !bindJSON(c, &payload, "Invalid resource payload") {
		return
	}

	resource, err := a.resources.Create(c.Request.Context(), service.ResourceInput{
		GoalID:           payload.GoalID,
		ResourceType:     payload.ResourceType,
		Title:            payload.Title,
		ValuePerUnit:     payload.ValuePerUnit,
		TotalTimePerUnit: payload.TotalTimePerUnit,
		ResourceLink:     payload.ResourceLink,
		Note:             payload.Note,
	})
	if err != nil {
		a.respondServiceError(c, err, "Failed to create resource")
		return
	}
	c.JSON(http.StatusOK, resourceToPayload(resource))
}

// ListResourcesByGoal 返回目标下的全部资源
func (a *API) ListResourcesByGoal(c *gin.Context) {
	goalID, ok := idParam(c, "goal_id")
	if !ok {
		return
	}

	resources, err := a.resources.ListByGoal(c.Request.Context(), goalID)
	if err != nil {
		a.respondServiceError(c, err, "Failed to list resources")
		return
	}

	items := make([]resourcePayload, 0, len(resources))
	for i := range resources {
		items = append(items, resourceToPayload(&resources[i]))
	}
	c.JSON(http.StatusOK, items)
}

// GetResource 根据 ID 返回资源
func (a *API) GetResource(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	resource, err := a.resources.Get(c.Request.Context(), id)
	if err != nil {
		a.respondServiceError(c, err, "Failed to load resource")
		return
	}
	c.JSON(http.StatusOK, resourceToPayload(resource))
}

// UpdateResource 部分更新资源
func (a *API) UpdateResource(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var payload service.ResourcePatch
	if !bindJSON(c, &payload, "Invalid resource payload") {
		return
	}

	resource, err := a.resources.Update(c.Request.Context(), id, payload)
	if err != nil {
		a.respondServiceError(c, err, "Failed to update resource")
		return
	}
	c.JSON(http.StatusOK, resourceToPayload(resource))
}

// DeleteResource 删除资源及其主题
func (a *API) DeleteResource(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := a.resources.Delete(c.Request.Context(), id); err != nil {
		a.respondServiceError(c, err, "Failed to delete resource")
		return
	}
	respondMessage(c, "Resource deleted successfully")
}
