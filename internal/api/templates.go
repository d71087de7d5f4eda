package api

import (
	"embed"
	"html/template"
	"strings"
	"time"

	"complaints-backend/internal/calendar"
)

//go:embed templates/*.html
var templateFS embed.FS

func loadTemplates(zone *calendar.Zone) *template.Template {
	funcs := template.FuncMap{
		"localTime": func(t time.Time) string {
			return t.In(zone.Location()).Format("2006-01-02 15:04")
		},
		"localTimePtr": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.In(zone.Location()).Format("2006-01-02 15:04")
		},
		"upper": strings.ToUpper,
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}
