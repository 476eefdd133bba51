package recommend

import (
	"errors"
	"testing"

	"medlocator/m/domain"
)

func TestMatchMedicine(t *testing.T) {
	catalog := []domain.Medicine{
		{ID: 1, BrandName: "Dolo", GenericName: "Paracetamol"},
		{ID: 2, BrandName: "Crocin", GenericName: "Paracetamol"},
		{ID: 3, BrandName: "Azithral", GenericName: "Azithromycin"},
		{ID: 4, BrandName: "", GenericName: "Cetirizine Hydrochloride"},
	}

	tests := []struct {
		name        string
		query       string
		wantID      int64
		wantMatched bool
	}{
		{"brand prefix, mixed case", "DOL", 1, true},
		{"generic name picks first in order", "paracetamol", 1, true},
		{"brand wins over later generic", "crocin", 2, true},
		{"substring inside generic", "thromy", 3, true},
		{"missing brand still matches generic", "cetirizine", 4, true},
		{"empty query matches first", "", 1, true},
		{"no match falls back to first", "insulin", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			med, matched, err := MatchMedicine(tt.query, catalog)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if med.ID != tt.wantID {
				t.Errorf("expected medicine %d, got %d", tt.wantID, med.ID)
			}
			if matched != tt.wantMatched {
				t.Errorf("expected matched=%v, got %v", tt.wantMatched, matched)
			}
		})
	}
}

func TestMatchMedicineParacet(t *testing.T) {
	catalog := []domain.Medicine{{ID: 7, BrandName: "Paracet", GenericName: "Paracetamol"}}
	med, matched, err := MatchMedicine("paracet", catalog)
	if err != nil || !matched || med.ID != 7 {
		t.Fatalf("expected a match on medicine 7, got %+v matched=%v err=%v", med, matched, err)
	}
}

func TestMatchMedicineEmptyCatalog(t *testing.T) {
	_, _, err := MatchMedicine("dolo", nil)
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got %v", err)
	}
}
