package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mbellec/bocage/internal/model"
)

const prospectColumns = `id, external_ref, honorific, name, street, postal_code, city,
	department, zone, phone_home, phone_farm, email, estimated_area_ha,
	area_source, contract_area_ha, tonnage_area_ha, tonnage_total,
	certifications, latitude, longitude, loyalty_years, relevance_score,
	account_manager`

// FetchProspects returns all prospects ordered by relevance score
// descending, up to the configured cap. The boolean reports whether the cap
// was reached.
func (s *SQLiteStorage) FetchProspects(ctx context.Context) ([]model.Prospect, bool, error) {
	if err := validateContext(ctx); err != nil {
		return nil, false, err
	}

	query := fmt.Sprintf(`SELECT %s FROM prospects ORDER BY relevance_score DESC LIMIT ?`, prospectColumns)
	rows, err := s.db.QueryContext(ctx, query, s.limits.Prospects)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query prospects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var prospects []model.Prospect
	for rows.Next() {
		p, scanErr := scanProspect(rows)
		if scanErr != nil {
			return nil, false, scanErr
		}
		prospects = append(prospects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("failed to iterate prospects: %w", err)
	}

	return prospects, len(prospects) >= s.limits.Prospects, nil
}

// SaveProspects bulk-inserts prospects inside a single transaction. Used by
// the seed loader; the runtime client never writes prospects.
func (s *SQLiteStorage) SaveProspects(ctx context.Context, prospects []model.Prospect) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProspects(prospects); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
		INSERT INTO prospects (%s)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(external_ref) DO NOTHING`, prospectColumns))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range prospects {
		p := &prospects[i]
		var id any
		if p.ID != 0 {
			id = p.ID
		}
		if _, err := stmt.ExecContext(ctx,
			id, p.ExternalRef, p.Honorific, p.Name, p.Street, p.PostalCode,
			p.City, p.Department, p.Zone, p.PhoneHome, p.PhoneFarm, p.Email,
			p.EstimatedAreaHa, p.AreaSource, p.ContractAreaHa, p.TonnageAreaHa,
			p.TonnageTotal, p.Certifications, p.Latitude, p.Longitude,
			p.LoyaltyYears, p.RelevanceScore, p.AccountManager,
		); err != nil {
			return fmt.Errorf("failed to insert prospect %s: %w", p.ExternalRef, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit prospects: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProspect(row rowScanner) (model.Prospect, error) {
	var p model.Prospect
	var (
		honorific, street, postalCode, city, department, zone   sql.NullString
		phoneHome, phoneFarm, email, areaSource, certifications sql.NullString
		accountManager                                          sql.NullString
		estimatedArea, contractArea, tonnageArea, tonnageTotal  sql.NullFloat64
		latitude, longitude                                     sql.NullFloat64
		loyaltyYears                                            sql.NullInt64
	)

	if err := row.Scan(
		&p.ID, &p.ExternalRef, &honorific, &p.Name, &street, &postalCode,
		&city, &department, &zone, &phoneHome, &phoneFarm, &email,
		&estimatedArea, &areaSource, &contractArea, &tonnageArea,
		&tonnageTotal, &certifications, &latitude, &longitude,
		&loyaltyYears, &p.RelevanceScore, &accountManager,
	); err != nil {
		return model.Prospect{}, fmt.Errorf("failed to scan prospect: %w", err)
	}

	p.Honorific = nullString(honorific)
	p.Street = nullString(street)
	p.PostalCode = nullString(postalCode)
	p.City = nullString(city)
	p.Department = nullString(department)
	p.Zone = nullString(zone)
	p.PhoneHome = nullString(phoneHome)
	p.PhoneFarm = nullString(phoneFarm)
	p.Email = nullString(email)
	p.AreaSource = nullString(areaSource)
	p.Certifications = nullString(certifications)
	p.AccountManager = nullString(accountManager)
	p.EstimatedAreaHa = nullFloat(estimatedArea)
	p.ContractAreaHa = nullFloat(contractArea)
	p.TonnageAreaHa = nullFloat(tonnageArea)
	p.TonnageTotal = nullFloat(tonnageTotal)
	p.Latitude = nullFloat(latitude)
	p.Longitude = nullFloat(longitude)
	p.LoyaltyYears = nullInt(loyaltyYears)

	return p, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
