package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/agenda_service/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type bookRequest struct {
	TimeslotID  uuid.UUID `json:"timeslot_id"`
	Description string    `json:"description"`
}

type staffCancelRequest struct {
	Reason string `json:"reason"`
}

type completeRequest struct {
	Notes string `json:"notes"`
}

type rateRequest struct {
	Rating int    `json:"rating"`
	Notes  string `json:"notes"`
}

// POST /api/appointments
func (h *Handler) BookAppointment(c *gin.Context) {
	profile := currentProfile(c)
	if profile.Role != model.RoleSchool {
		abortForbidden(c)
		return
	}

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.TimeslotID == uuid.Nil {
		badRequest(c, "timeslot_id is required")
		return
	}

	appt, err := h.appointments.Book(c.Request.Context(), req.TimeslotID, profile.ID, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, appt)
}

// GET /api/appointments/mine
func (h *Handler) ListMyAppointments(c *gin.Context) {
	appts, err := h.appointments.ListByRequester(c.Request.Context(), currentProfile(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, nonNil(appts))
}

// GET /api/departments/:id/appointments
func (h *Handler) ListDepartmentAppointments(c *gin.Context) {
	deptID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if !requireStaff(c, deptID) {
		return
	}

	appts, err := h.appointments.ListByDepartment(c.Request.Context(), deptID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, nonNil(appts))
}

// GET /api/appointments/:id
func (h *Handler) GetAppointment(c *gin.Context) {
	appt, ok := h.loadAppointment(c)
	if !ok {
		return
	}
	profile := currentProfile(c)
	if appt.RequesterID != profile.ID && !profile.IsStaffOf(appt.DepartmentID()) {
		abortForbidden(c)
		return
	}

	c.JSON(http.StatusOK, appt)
}

// POST /api/appointments/:id/cancel
func (h *Handler) CancelByRequester(c *gin.Context) {
	appt, ok := h.loadOwnAppointment(c)
	if !ok {
		return
	}

	updated, err := h.appointments.CancelByRequester(c.Request.Context(), appt.ID)
	respond(c, updated, err)
}

// POST /api/appointments/:id/staff-cancel
func (h *Handler) CancelByStaff(c *gin.Context) {
	appt, ok := h.loadStaffAppointment(c)
	if !ok {
		return
	}

	var req staffCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	updated, err := h.appointments.CancelByStaff(c.Request.Context(), appt.ID, req.Reason)
	respond(c, updated, err)
}

// POST /api/appointments/:id/no-show
func (h *Handler) MarkNoShow(c *gin.Context) {
	appt, ok := h.loadStaffAppointment(c)
	if !ok {
		return
	}

	updated, err := h.appointments.MarkNoShow(c.Request.Context(), appt.ID)
	respond(c, updated, err)
}

// POST /api/appointments/:id/complete
func (h *Handler) Complete(c *gin.Context) {
	appt, ok := h.loadStaffAppointment(c)
	if !ok {
		return
	}

	var req completeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
	}

	updated, err := h.appointments.Complete(c.Request.Context(), appt.ID, req.Notes)
	respond(c, updated, err)
}

// POST /api/appointments/:id/rate
func (h *Handler) Rate(c *gin.Context) {
	appt, ok := h.loadOwnAppointment(c)
	if !ok {
		return
	}

	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	updated, err := h.appointments.Rate(c.Request.Context(), appt.ID, req.Rating, req.Notes)
	respond(c, updated, err)
}

func (h *Handler) loadAppointment(c *gin.Context) (*model.Appointment, bool) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return nil, false
	}

	appt, err := h.appointments.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return appt, true
}

// loadOwnAppointment allows only the requester who booked it
func (h *Handler) loadOwnAppointment(c *gin.Context) (*model.Appointment, bool) {
	appt, ok := h.loadAppointment(c)
	if !ok {
		return nil, false
	}
	if appt.RequesterID != currentProfile(c).ID {
		abortForbidden(c)
		return nil, false
	}
	return appt, true
}

// loadStaffAppointment allows staff of the owning department and admins
func (h *Handler) loadStaffAppointment(c *gin.Context) (*model.Appointment, bool) {
	appt, ok := h.loadAppointment(c)
	if !ok {
		return nil, false
	}
	if !requireStaff(c, appt.DepartmentID()) {
		return nil, false
	}
	return appt, true
}

func respond(c *gin.Context, appt *model.Appointment, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}
