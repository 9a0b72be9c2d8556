package models

import "time"

// Brands is the fixed brand order of the one-hot block the artifacts were trained with.
var Brands = []string{
	"Apple", "Asus", "Chuwi", "Dell", "Fujitsu", "Google", "HP",
	"Huawei", "LG", "Lenovo", "MSI", "Mediacom",
	"Microsoft", "Razer", "Samsung", "Toshiba", "Vero", "Xiaomi",
}

// Dataset column names, as they appear in the catalog CSV.
const (
	ColInches      = "Inches"
	ColCPU         = "CPU_Frequency (GHz)"
	ColRAM         = "RAM (GB)"
	ColWeight      = "Weight (kg)"
	ColTouchscreen = "Touchscreen"
	ColSSD         = "SSD"
	ColResWidth    = "Res_Width"
	ColResHeight   = "Res_Height"
	ColIPS         = "IPS_Panel"
	ColHDD         = "HDD"
	ColPrice       = "Price (Euro)"

	BrandColumnPrefix = "Company_"
)

// NumericFeatureColumns is the leading, non-brand part of the feature vector.
var NumericFeatureColumns = []string{
	ColInches, ColCPU, ColRAM, ColWeight, ColTouchscreen,
	ColSSD, ColResWidth, ColResHeight, ColIPS, ColHDD,
}

// FeatureColumns returns the full feature-vector column order.
func FeatureColumns() []string {
	cols := make([]string, 0, len(NumericFeatureColumns)+len(Brands))
	cols = append(cols, NumericFeatureColumns...)
	for _, b := range Brands {
		cols = append(cols, BrandColumnPrefix+b)
	}
	return cols
}

// FeatureWidth is the number of columns the model expects.
func FeatureWidth() int {
	return len(NumericFeatureColumns) + len(Brands)
}

// LaptopRecord is one listing from the catalog. Never mutated after load.
type LaptopRecord struct {
	Inches       float64 `json:"inches" db:"inches"`
	CPUFrequency float64 `json:"cpu_frequency" db:"cpu_frequency"`
	RAM          float64 `json:"ram" db:"ram"`
	Weight       float64 `json:"weight" db:"weight"`
	Touchscreen  int     `json:"touchscreen" db:"touchscreen"`
	SSD          float64 `json:"ssd" db:"ssd"`
	ResWidth     float64 `json:"res_width" db:"res_width"`
	ResHeight    float64 `json:"res_height" db:"res_height"`
	IPSPanel     int     `json:"ips_panel" db:"ips_panel"`
	HDD          float64 `json:"hdd" db:"hdd"`
	Company      string  `json:"company" db:"company"`
	Price        float64 `json:"price" db:"price"`
}

// Value returns the numeric value of a dataset column, and false for
// columns that are not numeric attributes of the record.
func (r *LaptopRecord) Value(column string) (float64, bool) {
	switch column {
	case ColInches:
		return r.Inches, true
	case ColCPU:
		return r.CPUFrequency, true
	case ColRAM:
		return r.RAM, true
	case ColWeight:
		return r.Weight, true
	case ColTouchscreen:
		return float64(r.Touchscreen), true
	case ColSSD:
		return r.SSD, true
	case ColResWidth:
		return r.ResWidth, true
	case ColResHeight:
		return r.ResHeight, true
	case ColIPS:
		return float64(r.IPSPanel), true
	case ColHDD:
		return r.HDD, true
	case ColPrice:
		return r.Price, true
	}
	return 0, false
}

// NumericColumns lists every numeric column of a record, price last.
var NumericColumns = append(append([]string{}, NumericFeatureColumns...), ColPrice)

// UserConfiguration is the laptop a user asks a price for.
// Range checks mirror the options offered by the configuration form.
type UserConfiguration struct {
	Brand        string  `json:"brand" form:"brand" binding:"required"`
	CPUFrequency float64 `json:"cpu_frequency" form:"cpu_frequency" binding:"required,min=1,max=5"`
	RAM          int     `json:"ram" form:"ram" binding:"required,oneof=2 4 6 8 12 14"`
	Inches       float64 `json:"inches" form:"inches" binding:"required,min=10,max=18"`
	SSD          int     `json:"ssd" form:"ssd" binding:"oneof=0 128 256 512 1024"`
	HDD          int     `json:"hdd" form:"hdd" binding:"oneof=0 500 1000"`
	ResWidth     int     `json:"res_width" form:"res_width" binding:"required,oneof=1366 1920 2560 2880"`
	ResHeight    int     `json:"res_height" form:"res_height" binding:"required,oneof=768 1080 1600 1800"`
	Weight       float64 `json:"weight" form:"weight" binding:"required,min=1,max=4"`
	IPSPanel     int     `json:"ips_panel" form:"ips_panel" binding:"oneof=0 1"`
	Touchscreen  int     `json:"touchscreen" form:"touchscreen" binding:"oneof=0 1"`
}

// DefaultConfiguration is the configuration the predict form opens with.
func DefaultConfiguration() UserConfiguration {
	return UserConfiguration{
		Brand:        "Dell",
		CPUFrequency: 2.5,
		RAM:          8,
		Inches:       15.6,
		SSD:          256,
		HDD:          500,
		ResWidth:     1920,
		ResHeight:    1080,
		Weight:       2.0,
		IPSPanel:     1,
		Touchscreen:  0,
	}
}

// FeatureVector is a UserConfiguration laid out in FeatureColumns order.
type FeatureVector []float64

// PredictionResult is a single price estimate.
type PredictionResult struct {
	ID              string            `json:"id"`
	Price           float64           `json:"price_eur"`
	Converted       float64           `json:"price_idr"`
	Rate            float64           `json:"eur_to_idr"`
	MarketAverage   float64           `json:"market_average_eur"`
	DiffFromAverage float64           `json:"diff_from_average_eur"`
	DiffPercent     float64           `json:"diff_percent"`
	Configuration   UserConfiguration `json:"configuration"`
	CreatedAt       time.Time         `json:"created_at"`
}

// Choices offered by the configuration form. The binding tags on
// UserConfiguration accept exactly these values.
var (
	RAMOptions       = []int{2, 4, 6, 8, 12, 14}
	SSDOptions       = []int{0, 128, 256, 512, 1024}
	HDDOptions       = []int{0, 500, 1000}
	ResWidthOptions  = []int{1366, 1920, 2560, 2880}
	ResHeightOptions = []int{768, 1080, 1600, 1800}
)
