package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bridgei2p/leadportal/internal/admin"
	httpmiddleware "github.com/bridgei2p/leadportal/internal/http/middleware"
	"github.com/bridgei2p/leadportal/internal/leadform"
	"github.com/bridgei2p/leadportal/internal/leads"
	"github.com/bridgei2p/leadportal/pkg/logging"
)

const fetchFailedMessage = "Failed to fetch leads"

// AdminLeadsHandler serves the lead dashboard.
type AdminLeadsHandler struct {
	dashboard *admin.Dashboard
	exporter  *admin.Exporter
	logger    *logging.Logger
	now       func() time.Time
}

// NewAdminLeadsHandler creates a new admin leads handler.
func NewAdminLeadsHandler(dashboard *admin.Dashboard, exporter *admin.Exporter, logger *logging.Logger) *AdminLeadsHandler {
	if dashboard == nil {
		panic("handlers: admin dashboard required")
	}
	if exporter == nil {
		exporter = admin.NewExporter(dashboard, nil, nil)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminLeadsHandler{dashboard: dashboard, exporter: exporter, logger: logger, now: time.Now}
}

type leadRow struct {
	Lead      leads.Lead
	Created   string
	DetailURL string
}

type adminPage struct {
	Query     string
	Rows      []leadRow
	Stats     admin.Stats
	Selected  *leadRow
	Notices   []leadform.Notice
	ExportURL string
	CloseURL  string
	LoadedAt  string
}

// Page renders the dashboard. Leads are fetched on first view only; use
// Refresh to reload.
// GET /admin?q=&selected=
func (h *AdminLeadsHandler) Page(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	var notices []leadform.Notice
	if err := h.dashboard.EnsureLoaded(r.Context()); err != nil || r.URL.Query().Get("error") == "fetch" {
		notices = append(notices, leadform.Notice{Level: leadform.LevelError, Message: fetchFailedMessage})
	}

	loc := h.dashboard.Location()
	filtered := h.dashboard.Filter(q)
	rows := make([]leadRow, 0, len(filtered))
	for _, lead := range filtered {
		rows = append(rows, h.row(lead, q, loc))
	}

	page := adminPage{
		Query:     q,
		Rows:      rows,
		Stats:     h.dashboard.Stats(h.now()),
		Notices:   notices,
		ExportURL: dashboardURL("/admin/export.csv", q, ""),
		CloseURL:  dashboardURL("/admin", q, ""),
	}
	if loaded, at := h.dashboard.Loaded(); loaded {
		page.LoadedAt = at.In(loc).Format(admin.TableTimeLayout)
	}
	if lead, ok := h.dashboard.Find(r.URL.Query().Get("selected")); ok {
		row := h.row(lead, q, loc)
		page.Selected = &row
	}
	render(w, h.logger, "admin.html", http.StatusOK, page)
}

// Refresh re-fetches the lead list and redirects back to the dashboard.
// POST /admin/refresh
func (h *AdminLeadsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	target := dashboardURL("/admin", r.PostForm.Get("q"), "")
	if err := h.dashboard.Refresh(r.Context()); err != nil {
		if strings.Contains(target, "?") {
			target += "&error=fetch"
		} else {
			target += "?error=fetch"
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Export downloads the filtered leads as CSV.
// GET /admin/export.csv?q=
func (h *AdminLeadsHandler) Export(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboard.EnsureLoaded(r.Context()); err != nil {
		http.Error(w, fetchFailedMessage, http.StatusBadGateway)
		return
	}
	q := r.URL.Query().Get("q")
	out, err := h.exporter.Export(r.Context(), q)
	if err != nil {
		h.logger.Error("csv export failed", "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	actor := "anonymous"
	if claims, ok := httpmiddleware.AdminClaimsFromContext(r.Context()); ok && claims.Subject != "" {
		actor = claims.Subject
	}
	h.logger.Info("leads exported", "rows", out.Rows, "query", q, "admin", actor)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(out.Data)
}

func (h *AdminLeadsHandler) row(lead leads.Lead, q string, loc *time.Location) leadRow {
	return leadRow{
		Lead:      lead,
		Created:   admin.FormatTime(lead.CreatedAt, loc),
		DetailURL: dashboardURL("/admin", q, lead.ID),
	}
}

func dashboardURL(path, q, selected string) string {
	v := url.Values{}
	if q != "" {
		v.Set("q", q)
	}
	if selected != "" {
		v.Set("selected", selected)
	}
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}
