package webserver

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yuin/goldmark"

	"github.com/bengali-mteb/leaderboard/internal/catalog"
	"github.com/bengali-mteb/leaderboard/internal/ranking"
	"github.com/bengali-mteb/leaderboard/internal/results"
	"github.com/bengali-mteb/leaderboard/internal/views"
	"github.com/bengali-mteb/leaderboard/internal/webapi"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

const scorePrecision = 4

var funcMap = template.FuncMap{
	"score": func(s results.Score) string { return s.Format(scorePrecision) },
	"medal": views.Medal,
	// pct maps a score in [0, 1] to a bar width.
	"pct": func(v float64) string {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
	},
	// heat buckets a heatmap cell into five shades; "none" marks missing data.
	"heat": func(c views.HeatmapCell) string {
		if c.NoData {
			return "none"
		}
		switch v := c.Score.Value; {
		case v >= 0.8:
			return "h4"
		case v >= 0.6:
			return "h3"
		case v >= 0.4:
			return "h2"
		case v >= 0.2:
			return "h1"
		default:
			return "h0"
		}
	},
	"add": func(a, b int) int { return a + b },
}

// dashboardHandler renders the HTML dashboard for the selection in the
// request's query string.
type dashboardHandler struct {
	svc    *webapi.Service
	tmpl   *template.Template
	md     goldmark.Markdown
	logger *slog.Logger
}

func newDashboardHandler(svc *webapi.Service, logger *slog.Logger) (*dashboardHandler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	t, err := template.New("page").Funcs(funcMap).ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, err
	}
	return &dashboardHandler{svc: svc, tmpl: t, md: goldmark.New(), logger: logger}, nil
}

// page is the template data of the dashboard.
type page struct {
	*webapi.Dashboard
	Query       webapi.Query
	Description template.HTML
	Note        string
	Error       string
	Status      int
}

func dashboardQuery(r *http.Request) webapi.Query {
	q := r.URL.Query()
	return webapi.Query{
		Task:      q.Get("task"),
		Metric:    q.Get("metric"),
		Order:     q.Get("order"),
		Sort:      q.Get("sort"),
		SortOrder: q.Get("dir"),
		Model:     q.Get("model"),
	}
}

func (h *dashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := dashboardQuery(r)
	p := page{Query: q, Note: catalog.MTEBNote, Status: http.StatusOK}

	d, err := h.svc.Dashboard(r.Context(), q)
	if err != nil {
		p.Status = webapi.StatusFor(err)
		p.Error = err.Error()
	} else {
		p.Dashboard = d
		p.Description = h.markdown(d.Selection.Task.Description)
	}

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "base", p); err != nil {
		h.logger.Error("template error", "error", err)
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(p.Status)
	buf.WriteTo(w) //nolint:errcheck
}

// markdown renders a task description. goldmark escapes raw HTML by default,
// so the output is safe to inline.
func (h *dashboardHandler) markdown(src string) template.HTML {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := h.md.Convert([]byte(src), &buf); err != nil {
		h.logger.Debug("markdown conversion failed", "error", err)
		return template.HTML(template.HTMLEscapeString(src)) //nolint:gosec
	}
	return template.HTML(buf.String()) //nolint:gosec
}

// link builds a dashboard URL from q with the given overrides; an empty
// override value drops the parameter.
func link(q webapi.Query, overrides ...string) string {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		} else {
			v.Del(k)
		}
	}
	set("task", q.Task)
	set("metric", q.Metric)
	set("order", q.Order)
	set("sort", q.Sort)
	set("dir", q.SortOrder)
	set("model", q.Model)
	for i := 0; i+1 < len(overrides); i += 2 {
		set(overrides[i], overrides[i+1])
	}
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}

// TaskLink switches task. Metric and table sort are task specific and reset.
func (p page) TaskLink(id catalog.TaskID) string {
	return link(p.Query, "task", string(id), "metric", "", "sort", "", "dir", "")
}

// MetricLink switches the ranking metric.
func (p page) MetricLink(metric string) string {
	return link(p.Query, "metric", metric)
}

// OrderLink flips the ranking order.
func (p page) OrderLink() string {
	return link(p.Query, "order", string(p.Selection.Order.Toggle()))
}

// SortLink is the target of a click on a table column header.
func (p page) SortLink(column string) string {
	next := p.Selection.Sort.Click(column)
	return link(p.Query, "sort", next.Column, "dir", string(next.Order))
}

// SortMarker shows the direction of the sorted column.
func (p page) SortMarker(column string) string {
	if p.Selection.Sort.Column != column {
		return ""
	}
	if p.Selection.Sort.Order == ranking.Asc {
		return "▲"
	}
	return "▼"
}

// ModelLink toggles the highlighted model.
func (p page) ModelLink(m catalog.ModelID) string {
	return link(p.Query, "model", string(views.ToggleSelection(p.Selection.Model, m)))
}

// Selected reports whether m is the highlighted model.
func (p page) Selected(m catalog.ModelID) bool {
	return p.Dashboard != nil && p.Selection.Model == m
}
