package models

// CatalogSummary holds the headline numbers shown on the dashboard.
type CatalogSummary struct {
	TotalLaptops   int            `json:"total_laptops"`
	Features       int            `json:"features"`
	AveragePrice   float64        `json:"average_price"`
	MinPrice       float64        `json:"min_price"`
	MaxPrice       float64        `json:"max_price"`
	MaxRAM         float64        `json:"max_ram"`
	MaxCPU         float64        `json:"max_cpu"`
	LaptopsByBrand map[string]int `json:"laptops_by_brand"`
}

// ColumnStats is one column of the describe table.
type ColumnStats struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// CatalogFilter narrows the catalog for the analysis view.
// Nil bounds and nil sets place no constraint; a non-nil empty set
// matches nothing.
type CatalogFilter struct {
	MinPrice *float64
	MaxPrice *float64
	RAM      []float64
	IPS      []int
}

// HistogramBin is one equal-width bin; Upper is exclusive except for the last bin.
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// GroupMean is the mean of a value column within one group.
type GroupMean struct {
	Group string  `json:"group"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// CorrMatrix is a Pearson correlation matrix. Undefined cells are nil.
type CorrMatrix struct {
	Columns []string     `json:"columns"`
	Values  [][]*float64 `json:"values"`
}

// Dataset is the catalog as read from its source.
type Dataset struct {
	Source  string
	Columns []string
	Records []*LaptopRecord
}
