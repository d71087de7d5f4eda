package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"complaints-backend/internal/calendar"
	"complaints-backend/internal/parse"
	"complaints-backend/internal/report"
)

// DownloadComplaints handles GET /admin/download-complaints/:period.
func (h *Handler) DownloadComplaints(c *gin.Context) {
	period := parse.ParsePeriod(c.Param("period"))
	today := h.zone.Today()
	from, to, bounded := period.Range(today)

	var span *calendar.Span
	if bounded {
		s := h.zone.Span(from, to)
		span = &s
	}

	complaints, err := h.store.ListComplaints(c.Request.Context(), span)
	if err != nil {
		h.reportFailed(c, err)
		return
	}

	pdf, err := report.Render(report.Document{
		Period:      period,
		From:        from,
		To:          to,
		Bounded:     bounded,
		GeneratedAt: h.zone.Now(),
		Location:    h.zone.Location(),
		Complaints:  complaints,
	})
	if err != nil {
		h.reportFailed(c, err)
		return
	}

	filename := report.Filename(period, today)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) reportFailed(c *gin.Context, err error) {
	h.log.Error().Err(err).Str("period", c.Param("period")).Msg("failed to generate report")
	h.addFlash(c, flashError, "Error generating report. Please try again.")
	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}
