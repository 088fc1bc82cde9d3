package report

import (
	"strings"
	"testing"

	"github.com/mbellec/bocage/internal/model"
)

func TestEscapeCSVField(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "plain value quoted", value: "GAEC des Ormes", want: `"GAEC des Ormes"`},
		{name: "internal quote doubled", value: `Ferme "Les Chênes"`, want: `"Ferme ""Les Chênes"""`},
		{name: "leading equals neutralized", value: "=2+2", want: `"'=2+2"`},
		{name: "leading plus neutralized", value: "+33 299000000", want: `"'+33 299000000"`},
		{name: "leading minus neutralized", value: "-cmd", want: `"'-cmd"`},
		{name: "leading at neutralized", value: "@SUM(A1)", want: `"'@SUM(A1)"`},
		{name: "leading tab neutralized", value: "\tpayload", want: "\"'\tpayload\""},
		{name: "leading carriage return neutralized", value: "\rpayload", want: "\"'\rpayload\""},
		{name: "formula character inside is untouched", value: "a=b", want: `"a=b"`},
		{name: "empty field", value: "", want: `""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeCSVField(tt.value); got != tt.want {
				t.Errorf("EscapeCSVField(%q) = %s, want %s", tt.value, got, tt.want)
			}
		})
	}
}

func TestWriteCSV(t *testing.T) {
	phone := "0299000000"
	prospects := []model.ProspectWithStatus{
		prospect(1, "T0001", "=2+2", 85, func(p *model.ProspectWithStatus) {
			p.City = strPtr("Rennes")
			p.Department = strPtr("35")
			p.Zone = strPtr("North")
			p.EstimatedAreaHa = floatPtr(62.5)
			p.PhoneFarm = &phone
		}),
		prospect(2, "T0002", "EARL du Vallon", 40),
	}
	prospects[0].Status = model.StatusRecruited

	var buf strings.Builder
	if err := WriteCSV(&buf, prospects); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "\ufeff") {
		t.Error("output must start with a UTF-8 BOM")
	}

	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(out, "\ufeff"), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}

	wantHeader := `"external_reference","name","city","department","zone","area_ha","score","status","phone"`
	if lines[0] != wantHeader {
		t.Errorf("header = %s, want %s", lines[0], wantHeader)
	}

	wantRow := `"T0001","'=2+2","Rennes","35","North","62.5","85","Recruited","0299000000"`
	if lines[1] != wantRow {
		t.Errorf("row = %s, want %s", lines[1], wantRow)
	}

	// Nil fields export as quoted empty strings.
	wantEmpty := `"T0002","EARL du Vallon","","","","","40","Waiting",""`
	if lines[2] != wantEmpty {
		t.Errorf("row = %s, want %s", lines[2], wantEmpty)
	}
}
