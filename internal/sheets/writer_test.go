package sheets

import (
	"testing"
	"time"

	"github.com/mbellec/bocage/internal/model"
	"github.com/mbellec/bocage/internal/report"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "service account auth",
			mutate: func(c *Config) { c.ServiceAccountPath = "/tmp/sa.json" },
		},
		{
			name: "oauth auth",
			mutate: func(c *Config) {
				c.ClientID = "id"
				c.ClientSecret = "secret"
				c.RefreshToken = "refresh"
			},
		},
		{
			name:    "no auth",
			mutate:  func(_ *Config) {},
			wantErr: true,
		},
		{
			name: "both auth methods",
			mutate: func(c *Config) {
				c.ServiceAccountPath = "/tmp/sa.json"
				c.ClientID = "id"
				c.ClientSecret = "secret"
				c.RefreshToken = "refresh"
			},
			wantErr: true,
		},
		{
			name: "empty sheet name",
			mutate: func(c *Config) {
				c.ServiceAccountPath = "/tmp/sa.json"
				c.SheetName = ""
			},
			wantErr: true,
		},
		{
			name: "negative retry delay",
			mutate: func(c *Config) {
				c.ServiceAccountPath = "/tmp/sa.json"
				c.RetryDelay = -time.Second
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPrepareExportRows(t *testing.T) {
	area := 55.0
	dept := "61"
	prospects := []model.ProspectWithStatus{
		{
			Prospect: model.Prospect{
				ID:              1,
				ExternalRef:     "T0001",
				Name:            "Durand",
				Department:      &dept,
				EstimatedAreaHa: &area,
				RelevanceScore:  75,
			},
			Status: model.StatusInterested,
		},
	}
	kpis := report.ComputeKPIs(prospects)

	rows := prepareExportRows(prospects, kpis)

	// Summary block, spacer, header, one data row.
	if len(rows) != 8 {
		t.Fatalf("expected 8 rows, got %d", len(rows))
	}

	header := rows[6]
	if len(header) != len(report.CSVHeader) {
		t.Fatalf("header width = %d, want %d", len(header), len(report.CSVHeader))
	}
	if header[0] != "external_reference" {
		t.Errorf("header[0] = %v", header[0])
	}

	data := rows[7]
	if data[0] != "T0001" || data[1] != "Durand" {
		t.Errorf("unexpected data row: %v", data)
	}
	if data[5] != "55" {
		t.Errorf("area cell = %v, want 55", data[5])
	}
	if data[7] != model.StatusInterested.Label() {
		t.Errorf("status cell = %v", data[7])
	}
}
