package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"complaints-backend/internal/model"
	"complaints-backend/internal/mw"
	"complaints-backend/internal/store"
)

// Students renders the roster.
func (h *Handler) Students(c *gin.Context) {
	admin, _ := mw.CurrentAdmin(c)
	flashes := h.takeFlashes(c)

	students, err := h.store.ListStudents(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load students")
		flashes[flashError] = append(flashes[flashError], "Database connection error")
		students = nil
	}

	c.HTML(http.StatusOK, "admin_students.html", gin.H{
		"Admin":    admin.Username,
		"Students": students,
		"Flashes":  flashes,
	})
}

type addStudentRequest struct {
	StudentNumber string `json:"student_number"`
	NameSurname   string `json:"name_surname"`
}

// AddStudent handles POST /admin/add-student.
func (h *Handler) AddStudent(c *gin.Context) {
	var req addStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	req.StudentNumber = strings.TrimSpace(req.StudentNumber)
	req.NameSurname = strings.TrimSpace(req.NameSurname)
	if req.StudentNumber == "" || req.NameSurname == "" {
		badRequest(c, "Student number and name are required")
		return
	}
	if utf8.RuneCountInString(req.StudentNumber) > 20 || utf8.RuneCountInString(req.NameSurname) > 100 {
		badRequest(c, "Student number or name is too long")
		return
	}

	student := model.Student{StudentNumber: req.StudentNumber, NameSurname: req.NameSurname}
	err := h.store.AddStudent(c.Request.Context(), &student)
	if errors.Is(err, store.ErrDuplicateStudent) {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Student number already exists"})
		return
	}
	if err != nil {
		h.internalError(c, err, "An error occurred while adding the student.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Student added successfully"})
}

// DeleteStudent handles POST /admin/delete-student/:id. The student's
// complaints are removed with them.
func (h *Handler) DeleteStudent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "Invalid student id")
		return
	}

	removed, err := h.store.DeleteStudent(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Student not found"})
		return
	}
	if err != nil {
		h.internalError(c, err, "An error occurred while deleting the student.")
		return
	}

	admin, _ := mw.CurrentAdmin(c)
	h.log.Info().Int64("student_id", id).Int64("complaints_removed", removed).Str("admin", admin.Username).Msg("student deleted")
	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"message":            "Student deleted successfully",
		"complaints_removed": removed,
	})
}
