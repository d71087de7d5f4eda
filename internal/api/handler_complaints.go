package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"complaints-backend/internal/model"
	"complaints-backend/internal/store"
)

type submitComplaintRequest struct {
	NameSurname   string `form:"name_surname"`
	StudentNumber string `form:"student_number"`
	StudentEmail  string `form:"student_email"`
	BlockNumber   string `form:"block_number"`
	UnitNumber    string `form:"unit_number"`
	RoomNumber    string `form:"room_number"`
	ComplaintText string `form:"complaint_text"`
}

func (r *submitComplaintRequest) normalize() bool {
	fields := []*string{
		&r.NameSurname, &r.StudentNumber, &r.StudentEmail,
		&r.BlockNumber, &r.UnitNumber, &r.RoomNumber, &r.ComplaintText,
	}
	complete := true
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
		if *f == "" {
			complete = false
		}
	}
	return complete
}

// ComplaintForm renders the public complaint form.
func (h *Handler) ComplaintForm(c *gin.Context) {
	c.HTML(http.StatusOK, "form.html", gin.H{})
}

// SubmitComplaint handles POST /submit-complaint.
func (h *Handler) SubmitComplaint(c *gin.Context) {
	var req submitComplaintRequest
	if err := c.ShouldBind(&req); err != nil || !req.normalize() {
		badRequest(c, "All fields are required.")
		return
	}

	now := h.zone.Now()
	complaint := model.Complaint{
		NameSurname:   req.NameSurname,
		StudentNumber: req.StudentNumber,
		StudentEmail:  req.StudentEmail,
		BlockNumber:   req.BlockNumber,
		UnitNumber:    req.UnitNumber,
		RoomNumber:    req.RoomNumber,
		ComplaintText: req.ComplaintText,
		CreatedAt:     now,
	}

	err := h.store.SubmitComplaint(c.Request.Context(), &complaint, h.zone.DaySpan(h.zone.DateOf(now)))
	if errors.Is(err, store.ErrUnknownStudent) {
		badRequest(c, "Student number not found in our system. Please contact administration.")
		return
	}
	if err != nil {
		h.internalError(c, err, "An error occurred while submitting your complaint. Please try again.")
		return
	}

	h.log.Info().
		Int64("complaint_id", complaint.ID).
		Int("complaint_number", complaint.ComplaintNumber).
		Str("student_number", complaint.StudentNumber).
		Msg("complaint submitted")

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"message":          fmt.Sprintf("Complaint submitted successfully! Your complaint number is: %d", complaint.ComplaintNumber),
		"complaint_number": complaint.ComplaintNumber,
	})
}
