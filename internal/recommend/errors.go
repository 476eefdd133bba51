package recommend

import "errors"

// Sentinel error kinds. Callers match them with errors.Is.
var (
	ErrEmptyCatalog      = errors.New("medicine catalog is empty")
	ErrNoStockFound      = errors.New("no store stocks the medicine")
	ErrNoMatch           = errors.New("no medicine matches the query")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrInvalidWeight     = errors.New("invalid weight")
)
