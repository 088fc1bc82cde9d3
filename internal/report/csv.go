package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mbellec/bocage/internal/model"
)

// CSVHeader is the fixed export column set.
var CSVHeader = []string{
	"external_reference", "name", "city", "department", "zone",
	"area_ha", "score", "status", "phone",
}

// utf8BOM lets spreadsheet applications detect the encoding.
const utf8BOM = "\ufeff"

// EscapeCSVField escapes one field for export. Every field is quoted with
// internal quotes doubled, and any field that a spreadsheet would interpret
// as a formula (leading =, +, -, @, tab or carriage return) gets a
// neutralizing apostrophe first.
func EscapeCSVField(value string) string {
	escaped := strings.ReplaceAll(value, `"`, `""`)
	if len(escaped) > 0 {
		switch escaped[0] {
		case '=', '+', '-', '@', '\t', '\r':
			escaped = "'" + escaped
		}
	}
	return `"` + escaped + `"`
}

// WriteCSV writes the filtered prospect list as a BOM-prefixed UTF-8 CSV
// with the fixed header, one row per prospect.
func WriteCSV(w io.Writer, prospects []model.ProspectWithStatus) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}
	if err := writeRow(w, CSVHeader); err != nil {
		return err
	}
	for i := range prospects {
		if err := writeRow(w, csvRow(&prospects[i])); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(w io.Writer, fields []string) error {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = EscapeCSVField(f)
	}
	if _, err := io.WriteString(w, strings.Join(escaped, ",")+"\n"); err != nil {
		return fmt.Errorf("failed to write CSV row: %w", err)
	}
	return nil
}

func csvRow(p *model.ProspectWithStatus) []string {
	area := ""
	if p.EstimatedAreaHa != nil {
		area = strconv.FormatFloat(*p.EstimatedAreaHa, 'f', -1, 64)
	}
	return []string{
		p.ExternalRef,
		p.Name,
		deref(p.City),
		deref(p.Department),
		deref(p.Zone),
		area,
		strconv.Itoa(p.RelevanceScore),
		p.Status.Label(),
		p.Phone(),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
