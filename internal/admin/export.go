package admin

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bridgei2p/leadportal/internal/leads"
)

const (
	// TableTimeLayout formats created_at in the dashboard table and modal.
	TableTimeLayout = "02 Jan 2006, 03:04 PM"
	// CSVDateLayout formats created_at in exports.
	CSVDateLayout = "02/01/2006"
)

// CSVHeader is the first row of every export.
var CSVHeader = []string{"First Name", "Last Name", "Company", "Website", "Email", "Phone", "Query", "Opt-in", "Date"}

// Archiver keeps a copy of each export.
type Archiver interface {
	ArchiveExport(ctx context.Context, filename string, data []byte, rows int) error
}

// ExportMetrics counts exports.
type ExportMetrics interface {
	ObserveExport()
}

// ExportFilename names a download made at now.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("bridgei2p-leads-%s.csv", now.Format("2006-01-02"))
}

// FormatTime renders a timestamp for the table, or "-" when unknown.
func FormatTime(ts leads.Timestamp, loc *time.Location) string {
	if ts.IsZero() {
		return "-"
	}
	if loc == nil {
		loc = time.Local
	}
	return ts.In(loc).Format(TableTimeLayout)
}

// WriteCSV writes the header then one row per lead.
func WriteCSV(w io.Writer, rows []leads.Lead, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("admin: write csv header: %w", err)
	}
	for _, lead := range rows {
		if err := cw.Write(csvRow(lead, loc)); err != nil {
			return fmt.Errorf("admin: write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("admin: flush csv: %w", err)
	}
	return nil
}

func csvRow(lead leads.Lead, loc *time.Location) []string {
	optIn := "No"
	if lead.OptIn {
		optIn = "Yes"
	}
	date := ""
	if !lead.CreatedAt.IsZero() {
		date = lead.CreatedAt.In(loc).Format(CSVDateLayout)
	}
	return []string{
		lead.FirstName,
		lead.LastName,
		lead.CompanyName,
		lead.Website,
		lead.WorkEmail,
		lead.PhoneNumber,
		strings.ReplaceAll(lead.Query, ",", ";"),
		optIn,
		date,
	}
}

// Export is a rendered CSV download.
type Export struct {
	Filename string
	Data     []byte
	Rows     int
}

// Exporter renders filtered exports and archives them best-effort.
type Exporter struct {
	dashboard *Dashboard
	archiver  Archiver
	metrics   ExportMetrics
	now       func() time.Time
}

// NewExporter wires an exporter. archiver and metrics may be nil.
func NewExporter(d *Dashboard, archiver Archiver, metrics ExportMetrics) *Exporter {
	return &Exporter{dashboard: d, archiver: archiver, metrics: metrics, now: time.Now}
}

// Export renders the leads matching term.
func (e *Exporter) Export(ctx context.Context, term string) (Export, error) {
	rows := e.dashboard.Filter(term)
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows, e.dashboard.loc); err != nil {
		return Export{}, err
	}
	out := Export{
		Filename: ExportFilename(e.now().In(e.dashboard.loc)),
		Data:     buf.Bytes(),
		Rows:     len(rows),
	}
	if e.metrics != nil {
		e.metrics.ObserveExport()
	}
	if e.archiver != nil {
		if err := e.archiver.ArchiveExport(ctx, out.Filename, out.Data, out.Rows); err != nil {
			e.dashboard.logger.Warn("export archive failed", "error", err, "filename", out.Filename)
		}
	}
	return out, nil
}
