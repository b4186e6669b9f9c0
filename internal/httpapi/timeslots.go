package httpapi

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/agenda_service/internal/model"
	"github.com/Freeeeeet/agenda_service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type generateSlotsRequest struct {
	Date            string `json:"date" binding:"required"`
	StartTime       string `json:"start_time" binding:"required"`
	EndTime         string `json:"end_time" binding:"required"`
	DurationMinutes int    `json:"duration_minutes"`
}

// POST /api/departments/:id/timeslots/generate
func (h *Handler) GenerateSlots(c *gin.Context) {
	deptID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if !requireStaff(c, deptID) {
		return
	}

	var req generateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	slots, err := h.timeslots.GenerateSlots(c.Request.Context(), service.SlotRequest{
		DepartmentID:    deptID,
		Date:            req.Date,
		Start:           req.StartTime,
		End:             req.EndTime,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, slots)
}

// GET /api/departments/:id/timeslots
func (h *Handler) ListDepartmentSlots(c *gin.Context) {
	deptID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if !requireStaff(c, deptID) {
		return
	}

	slots, err := h.timeslots.ListByDepartment(c.Request.Context(), deptID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, nonNil(slots))
}

// GET /api/departments/:id/timeslots/available?not_before=RFC3339
func (h *Handler) ListAvailableSlots(c *gin.Context) {
	deptID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	notBefore := time.Now()
	if raw := c.Query("not_before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			badRequest(c, "not_before must be an RFC3339 timestamp")
			return
		}
		notBefore = t
	}

	slots := make([]*model.TimeSlot, 0)
	for slot, err := range h.timeslots.ListAvailable(c.Request.Context(), deptID, notBefore) {
		if err != nil {
			writeError(c, err)
			return
		}
		slots = append(slots, slot)
	}

	c.JSON(http.StatusOK, slots)
}

// DELETE /api/timeslots/:id
func (h *Handler) DeleteSlot(c *gin.Context) {
	slotID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	slot, err := h.timeslots.Get(c.Request.Context(), slotID)
	if err != nil {
		if service.KindOf(err) == service.KindNotFound {
			c.Status(http.StatusNoContent)
			return
		}
		writeError(c, err)
		return
	}
	if !requireStaff(c, slot.DepartmentID) {
		return
	}

	if err := h.timeslots.Delete(c.Request.Context(), slotID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// POST /api/timeslots/:id/reopen
func (h *Handler) ReopenSlot(c *gin.Context) {
	slotID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	slot, err := h.timeslots.Get(c.Request.Context(), slotID)
	if err != nil {
		writeError(c, err)
		return
	}
	if !requireStaff(c, slot.DepartmentID) {
		return
	}

	slot, err = h.timeslots.Reopen(c.Request.Context(), slotID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, slot)
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, name+" must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func requireStaff(c *gin.Context, departmentID uuid.UUID) bool {
	p := currentProfile(c)
	if p == nil || !p.IsStaffOf(departmentID) {
		abortForbidden(c)
		return false
	}
	return true
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
