package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"complaints-backend/internal/calendar"
	"complaints-backend/internal/model"
	"complaints-backend/internal/mw"
	"complaints-backend/internal/report"
	"complaints-backend/internal/store"
)

// Dashboard lists complaints, optionally restricted to one regional day.
func (h *Handler) Dashboard(c *gin.Context) {
	admin, _ := mw.CurrentAdmin(c)
	flashes := h.takeFlashes(c)

	var span *calendar.Span
	searchDate := ""
	if d, ok := calendar.ParseDate(c.Query("search_date")); ok {
		s := h.zone.DaySpan(d)
		span = &s
		searchDate = d.String()
	}

	complaints, err := h.store.ListComplaints(c.Request.Context(), span)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load dashboard")
		flashes[flashError] = append(flashes[flashError], "Database connection error")
		complaints = nil
	}

	c.HTML(http.StatusOK, "admin_dashboard.html", gin.H{
		"Admin":      admin.Username,
		"Complaints": complaints,
		"Summary":    report.Summarize(complaints),
		"SearchDate": searchDate,
		"Today":      h.zone.Today().String(),
		"Flashes":    flashes,
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles POST /admin/update-status/:id.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "Invalid complaint id")
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	status, err := model.ParseStatus(req.Status)
	if err != nil {
		badRequest(c, "Invalid status")
		return
	}

	err = h.store.SetComplaintStatus(c.Request.Context(), id, status, h.zone.Now())
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Complaint not found"})
		return
	}
	if err != nil {
		h.internalError(c, err, "An error occurred while updating the status.")
		return
	}

	admin, _ := mw.CurrentAdmin(c)
	h.log.Info().Int64("complaint_id", id).Str("status", string(status)).Str("admin", admin.Username).Msg("complaint status updated")
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Status updated successfully"})
}
