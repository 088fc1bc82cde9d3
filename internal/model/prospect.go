// Package model defines the core domain models used throughout the application.
package model

// Prospect represents a farm operation tracked by the outreach campaign.
// The profile is owned by the backend store; the client never mutates it.
type Prospect struct {
	ID                int64
	ExternalRef       string
	Honorific         *string
	Name              string
	Street            *string
	PostalCode        *string
	City              *string
	Department        *string
	Zone              *string
	PhoneHome         *string
	PhoneFarm         *string
	Email             *string
	EstimatedAreaHa   *float64
	AreaSource        *string
	ContractAreaHa    *float64
	TonnageAreaHa     *float64
	TonnageTotal      *float64
	Certifications    *string
	Latitude          *float64
	Longitude         *float64
	LoyaltyYears      *int
	RelevanceScore    int
	AccountManager    *string
}

// Certified reports whether the prospect carries a real certification marker.
// The backend encodes "none" inconsistently: NULL, empty string, "0" and
// "0.0" all mean not certified. Every reader must apply this normalization.
func (p *Prospect) Certified() bool {
	return CertificationPresent(p.Certifications)
}

// CertificationPresent applies the certification normalization to a raw
// marker value.
func CertificationPresent(marker *string) bool {
	if marker == nil {
		return false
	}
	switch *marker {
	case "", "0", "0.0":
		return false
	}
	return true
}

// Phone returns the best contact number: the farm line when present,
// otherwise the home line, otherwise empty.
func (p *Prospect) Phone() string {
	if p.PhoneFarm != nil && *p.PhoneFarm != "" {
		return *p.PhoneFarm
	}
	if p.PhoneHome != nil {
		return *p.PhoneHome
	}
	return ""
}
