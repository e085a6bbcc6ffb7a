// Package admin holds the lead dashboard: the fetched collection, search,
// headline stats and CSV export.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bridgei2p/leadportal/internal/leads"
	"github.com/bridgei2p/leadportal/pkg/logging"
)

// ErrFetchFailed wraps any failure to load leads from the backend.
var ErrFetchFailed = errors.New("admin: fetch leads failed")

// Source lists leads from the backend.
type Source interface {
	ListLeads(ctx context.Context) ([]leads.Lead, error)
}

// Stats are the dashboard headline counts.
type Stats struct {
	Total         int
	OptedIn       int
	EmailVerified int
	Today         int
}

// Dashboard caches the last fetched lead collection.
type Dashboard struct {
	source Source
	loc    *time.Location
	logger *logging.Logger

	mu       sync.RWMutex
	leads    []leads.Lead
	loaded   bool
	loadedAt time.Time
}

// NewDashboard creates a dashboard reading from source. Calendar days are
// computed in loc; nil means time.Local.
func NewDashboard(source Source, loc *time.Location, logger *logging.Logger) *Dashboard {
	if source == nil {
		panic("admin: lead source required")
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Dashboard{source: source, loc: loc, logger: logger}
}

// Location returns the dashboard's time zone.
func (d *Dashboard) Location() *time.Location {
	return d.loc
}

// Refresh fetches the full list and replaces the collection. On failure the
// previous collection is kept.
func (d *Dashboard) Refresh(ctx context.Context) error {
	fetched, err := d.source.ListLeads(ctx)
	if err != nil {
		d.logger.Warn("lead fetch failed", "error", err)
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	if fetched == nil {
		fetched = []leads.Lead{}
	}

	d.mu.Lock()
	d.leads = fetched
	d.loaded = true
	d.loadedAt = time.Now()
	d.mu.Unlock()

	d.logger.Debug("leads refreshed", "count", len(fetched))
	return nil
}

// EnsureLoaded fetches once if nothing has been loaded yet.
func (d *Dashboard) EnsureLoaded(ctx context.Context) error {
	d.mu.RLock()
	loaded := d.loaded
	d.mu.RUnlock()
	if loaded {
		return nil
	}
	return d.Refresh(ctx)
}

// Loaded reports whether a fetch has ever succeeded, and when the last one did.
func (d *Dashboard) Loaded() (bool, time.Time) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded, d.loadedAt
}

// Leads returns a copy of the collection in backend order.
func (d *Dashboard) Leads() []leads.Lead {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]leads.Lead, len(d.leads))
	copy(out, d.leads)
	return out
}

// Filter returns leads whose name, company, email or phone contains term,
// ignoring case. The term is not trimmed. An empty term returns everything.
func (d *Dashboard) Filter(term string) []leads.Lead {
	return FilterLeads(d.Leads(), term)
}

// FilterLeads applies the dashboard search to an arbitrary list.
func FilterLeads(all []leads.Lead, term string) []leads.Lead {
	term = strings.ToLower(term)
	if term == "" {
		return all
	}
	out := make([]leads.Lead, 0, len(all))
	for _, lead := range all {
		if matches(lead, term) {
			out = append(out, lead)
		}
	}
	return out
}

func matches(lead leads.Lead, term string) bool {
	for _, v := range []string{lead.FirstName, lead.LastName, lead.CompanyName, lead.WorkEmail, lead.PhoneNumber} {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

// Stats counts over the whole collection. Today means created on now's
// calendar day in the dashboard location.
func (d *Dashboard) Stats(now time.Time) Stats {
	return ComputeStats(d.Leads(), now, d.loc)
}

// ComputeStats is Stats over an arbitrary list.
func ComputeStats(all []leads.Lead, now time.Time, loc *time.Location) Stats {
	if loc == nil {
		loc = time.Local
	}
	var s Stats
	s.Total = len(all)
	for _, lead := range all {
		if lead.OptIn {
			s.OptedIn++
		}
		if lead.EmailVerified {
			s.EmailVerified++
		}
		if !lead.CreatedAt.IsZero() && sameDay(lead.CreatedAt.In(loc), now.In(loc)) {
			s.Today++
		}
	}
	return s
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Find returns the lead with id.
func (d *Dashboard) Find(id string) (leads.Lead, bool) {
	if id == "" {
		return leads.Lead{}, false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, lead := range d.leads {
		if lead.ID == id {
			return lead, true
		}
	}
	return leads.Lead{}, false
}
