// Command export-leads writes the admin CSV export without the dashboard.
//
//	export-leads [-q term] [-o file|-] [-archive]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/bridgei2p/leadportal/cmd/mainconfig"
	"github.com/bridgei2p/leadportal/internal/admin"
	"github.com/bridgei2p/leadportal/internal/app/bootstrap"
	appconfig "github.com/bridgei2p/leadportal/internal/config"
	"github.com/bridgei2p/leadportal/internal/leadapi"
	"github.com/bridgei2p/leadportal/pkg/logging"
)

type options struct {
	query   string
	output  string
	archive bool
}

func main() {
	_ = godotenv.Load()

	var opts options
	flag.StringVar(&opts.query, "q", "", "search term applied before export")
	flag.StringVar(&opts.output, "o", "", "output file, - for stdout (default bridgei2p-leads-<date>.csv)")
	flag.BoolVar(&opts.archive, "archive", false, "also upload the export to EXPORT_ARCHIVE_BUCKET")
	flag.Parse()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.BackendTimeout+5*time.Second)
	defer cancel()

	var archiver admin.Archiver
	if opts.archive {
		if cfg.ExportArchiveBucket == "" {
			log.Fatal("EXPORT_ARCHIVE_BUCKET is required with -archive")
		}
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			log.Fatalf("load aws config: %v", err)
		}
		archiver = bootstrap.BuildExportArchive(cfg, &awsCfg, logger)
	}

	out, err := run(ctx, cfg, logger, opts, archiver, os.Stdout)
	if err != nil {
		log.Fatalf("export leads: %v", err)
	}
	if out != "-" {
		fmt.Fprintf(os.Stderr, "wrote %s\n", out)
	}
}

// run fetches, filters and writes one export. It returns where the CSV went.
func run(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, opts options, archiver admin.Archiver, stdout io.Writer) (string, error) {
	loc, err := cfg.Location()
	if err != nil {
		return "", err
	}
	client, err := leadapi.New(cfg.AdminBackendURL, logger, leadapi.WithTimeout(cfg.BackendTimeout))
	if err != nil {
		return "", err
	}

	dashboard := admin.NewDashboard(client, loc, logger)
	if err := dashboard.Refresh(ctx); err != nil {
		return "", err
	}
	export, err := admin.NewExporter(dashboard, archiver, nil).Export(ctx, opts.query)
	if err != nil {
		return "", err
	}

	target := opts.output
	if target == "" {
		target = export.Filename
	}
	if target == "-" {
		_, err = stdout.Write(export.Data)
		return target, err
	}
	if err := os.WriteFile(target, export.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", target, err)
	}
	logger.Info("leads exported", "file", target, "rows", export.Rows, "query", opts.query)
	return target, nil
}
