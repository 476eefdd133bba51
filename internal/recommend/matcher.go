package recommend

import (
	"strings"

	"medlocator/m/domain"
)

// MatchMedicine returns the first medicine whose brand or generic name
// contains query, ignoring case. When nothing matches it returns the first
// medicine with matched set to false: a weak fallback, not a "not found"
// signal. An empty query matches the first medicine.
func MatchMedicine(query string, medicines []domain.Medicine) (med domain.Medicine, matched bool, err error) {
	if len(medicines) == 0 {
		return domain.Medicine{}, false, ErrEmptyCatalog
	}
	q := strings.ToLower(query)
	for _, m := range medicines {
		if strings.Contains(strings.ToLower(m.BrandName), q) ||
			strings.Contains(strings.ToLower(m.GenericName), q) {
			return m, true, nil
		}
	}
	return medicines[0], false, nil
}
