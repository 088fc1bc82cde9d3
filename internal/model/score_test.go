package model

import "testing"

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }
func ptrS(v string) *string   { return &v }

func TestDecomposeScore(t *testing.T) {
	tests := []struct {
		name        string
		prospect    Prospect
		wantAwarded int
		wantMet     []bool
	}{
		{
			name: "all criteria met",
			prospect: Prospect{
				EstimatedAreaHa: ptrF(80),
				TonnageTotal:    ptrF(150),
				Certifications:  ptrS("HVE3"),
				LoyaltyYears:    ptrI(5),
				RelevanceScore:  85,
			},
			wantAwarded: 85,
			wantMet:     []bool{true, true, true, true, true},
		},
		{
			name: "nil numeric attributes treated as zero",
			prospect: Prospect{
				RelevanceScore: 10,
			},
			wantAwarded: 0,
			wantMet:     []bool{false, false, false, false, false},
		},
		{
			name: "small uncertified farm",
			prospect: Prospect{
				EstimatedAreaHa: ptrF(20),
				TonnageTotal:    ptrF(40),
				Certifications:  ptrS("0.0"),
				LoyaltyYears:    ptrI(1),
				RelevanceScore:  40,
			},
			wantAwarded: 30,
			wantMet:     []bool{true, false, false, false, false},
		},
		{
			name: "boundary values are strict or inclusive per criterion",
			prospect: Prospect{
				EstimatedAreaHa: ptrF(50), // strictly greater required
				TonnageTotal:    ptrF(100),
				LoyaltyYears:    ptrI(3), // inclusive
				RelevanceScore:  40,
			},
			wantAwarded: 40,
			wantMet:     []bool{true, false, false, false, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecomposeScore(&tt.prospect)

			if len(got.Criteria) != 5 {
				t.Fatalf("expected 5 criteria, got %d", len(got.Criteria))
			}
			if got.Awarded != tt.wantAwarded {
				t.Errorf("Awarded = %d, want %d", got.Awarded, tt.wantAwarded)
			}
			if got.Delta != tt.prospect.RelevanceScore-tt.wantAwarded {
				t.Errorf("Delta = %d, want %d", got.Delta, tt.prospect.RelevanceScore-tt.wantAwarded)
			}
			for i, c := range got.Criteria {
				if c.Met != tt.wantMet[i] {
					t.Errorf("criterion %q: Met = %v, want %v", c.Label, c.Met, tt.wantMet[i])
				}
				wantPoints := 0
				if c.Met {
					wantPoints = c.MaxPoints
				}
				if c.Points != wantPoints {
					t.Errorf("criterion %q: Points = %d, want %d", c.Label, c.Points, wantPoints)
				}
			}
		})
	}
}

func TestCertificationPresent(t *testing.T) {
	tests := []struct {
		marker *string
		name   string
		want   bool
	}{
		{name: "nil means none", marker: nil, want: false},
		{name: "empty means none", marker: ptrS(""), want: false},
		{name: "zero means none", marker: ptrS("0"), want: false},
		{name: "zero point zero means none", marker: ptrS("0.0"), want: false},
		{name: "real marker counts", marker: ptrS("HVE3"), want: true},
		{name: "organic marker counts", marker: ptrS("AB"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CertificationPresent(tt.marker); got != tt.want {
				t.Errorf("CertificationPresent() = %v, want %v", got, tt.want)
			}
		})
	}
}
