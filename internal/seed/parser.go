// Package seed loads demo campaign data from the legacy SQL dump format.
package seed

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mbellec/bocage/internal/model"
)

// prospectRowPattern matches one tuple of the legacy prospects INSERT. The
// dump always writes the same 22 columns in the same order, so a single
// pattern covers every row.
var prospectRowPattern = regexp.MustCompile(
	`\('(T\d+)',\s*'((?:[^']|'')*)',\s*'((?:[^']|'')*)',\s*'((?:[^']|'')*)',\s*'((?:[^']|'')*)',\s*'((?:[^']|'')*)',` +
		`\s*'(\d+)',\s*'((?:[^']|'')*)',\s*(NULL|'(?:[^']|'')*'),\s*'((?:[^']|'')*)',\s*(NULL|'(?:[^']|'')*'),` +
		`\s*(\d+),\s*'((?:[^']|'')*)',\s*(\d+),\s*(\d+),\s*(\d+),\s*(NULL|'(?:[^']|'')*'),` +
		`\s*([\d.]+),\s*([\d.-]+),\s*(\d+),\s*(\d+),\s*'((?:[^']|'')*)'\)`)

// interactionRowPattern matches one tuple of the legacy actions INSERT:
// (prospect_id, 'type', 'notes', 'created_by'). Values use SQL quote
// doubling, which the quoted groups must consume.
var interactionRowPattern = regexp.MustCompile(
	`\((\d+),\s*'((?:[^']|'')*)',\s*'((?:[^']|'')*)',\s*'((?:[^']|'')*)'\)`)

// legacyKinds maps the dump's French action types onto the canonical kinds.
var legacyKinds = map[string]model.InteractionKind{
	"appele":     model.KindCalled,
	"interesse":  model.KindInterested,
	"refuse":     model.KindRefused,
	"a_rappeler": model.KindCallback,
	"recrute":    model.KindRecruited,
}

// Data is the parsed content of a seed dump.
type Data struct {
	Prospects    []model.Prospect
	Interactions []model.NewInteraction
}

// Parse extracts prospects and interactions from a legacy SQL dump. Rows
// that do not match the fixed tuple shape are ignored, matching how the dump
// was consumed historically.
func Parse(sql string) (*Data, error) {
	data := &Data{}

	for _, m := range prospectRowPattern.FindAllStringSubmatch(sql, -1) {
		p, err := parseProspectRow(m)
		if err != nil {
			return nil, fmt.Errorf("prospect %s: %w", m[1], err)
		}
		data.Prospects = append(data.Prospects, p)
	}

	// Interaction tuples only appear after the actions INSERT; scanning the
	// whole file would also match fragments of prospect rows.
	if idx := strings.Index(sql, "INSERT INTO actions"); idx >= 0 {
		for _, m := range interactionRowPattern.FindAllStringSubmatch(sql[idx:], -1) {
			in, err := parseInteractionRow(m)
			if err != nil {
				return nil, err
			}
			data.Interactions = append(data.Interactions, in)
		}
	}

	if len(data.Prospects) == 0 {
		return nil, fmt.Errorf("no prospect rows found in seed data")
	}
	return data, nil
}

func parseProspectRow(m []string) (model.Prospect, error) {
	score, err := strconv.Atoi(m[21])
	if err != nil {
		return model.Prospect{}, fmt.Errorf("invalid score: %w", err)
	}

	estimatedArea := mustFloat(m[12])
	contractArea := mustFloat(m[14])
	tonnageArea := mustFloat(m[15])
	tonnageTotal := mustFloat(m[16])
	latitude := mustFloat(m[18])
	longitude := mustFloat(m[19])
	loyalty, err := strconv.Atoi(m[20])
	if err != nil {
		return model.Prospect{}, fmt.Errorf("invalid loyalty years: %w", err)
	}

	return model.Prospect{
		ExternalRef:     m[1],
		Honorific:       optional(m[2]),
		Name:            unescape(m[3]),
		Street:          optional(unescape(m[4])),
		PostalCode:      optional(m[5]),
		City:            optional(m[6]),
		Department:      optional(m[7]),
		Zone:            optional(m[8]),
		PhoneHome:       nullable(m[9]),
		PhoneFarm:       optional(m[10]),
		Email:           nullable(m[11]),
		EstimatedAreaHa: &estimatedArea,
		AreaSource:      optional(m[13]),
		ContractAreaHa:  &contractArea,
		TonnageAreaHa:   &tonnageArea,
		TonnageTotal:    &tonnageTotal,
		Certifications:  nullable(m[17]),
		Latitude:        &latitude,
		Longitude:       &longitude,
		LoyaltyYears:    &loyalty,
		RelevanceScore:  score,
		AccountManager:  optional(m[22]),
	}, nil
}

func parseInteractionRow(m []string) (model.NewInteraction, error) {
	prospectID, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return model.NewInteraction{}, fmt.Errorf("invalid prospect id %q: %w", m[1], err)
	}

	kind, ok := legacyKinds[m[2]]
	if !ok {
		parsed, parseErr := model.ParseInteractionKind(m[2])
		if parseErr != nil {
			return model.NewInteraction{}, fmt.Errorf("prospect %d: %w", prospectID, parseErr)
		}
		kind = parsed
	}

	return model.NewInteraction{
		ProspectID: prospectID,
		Kind:       kind,
		Notes:      optional(unescape(m[3])),
		CreatedBy:  m[4],
	}, nil
}

// unescape reverses SQL single-quote doubling.
func unescape(s string) string {
	return strings.ReplaceAll(s, "''", "'")
}

// optional returns nil for empty strings.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// nullable handles NULL-or-quoted columns. Only the delimiting quotes are
// trimmed; a doubled quote at the end of the value belongs to the value.
func nullable(raw string) *string {
	if raw == "NULL" {
		return nil
	}
	raw = strings.TrimPrefix(raw, "'")
	raw = strings.TrimSuffix(raw, "'")
	return optional(unescape(raw))
}

// mustFloat parses columns the pattern already constrained to numeric text.
func mustFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
