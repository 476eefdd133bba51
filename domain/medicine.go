package domain

type Medicine struct {
	ID          int64  `db:"id" json:"id"`
	BrandName   string `db:"brand_name" json:"brand_name"`
	GenericName string `db:"generic_name" json:"generic_name"`
	Strength    string `db:"strength" json:"strength"`
	Form        string `db:"form" json:"form"`
	ATCCode     string `db:"atc_code" json:"atc_code"`
}
