package services

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"laptop-price/models"
	"laptop-price/utils"
)

var ErrUnknownColumn = errors.New("unknown column")

// CatalogService answers read-only questions about the loaded catalog.
// It never mutates the dataset and is safe for concurrent use.
type CatalogService struct {
	logger  *utils.Logger
	dataset *models.Dataset
	summary models.CatalogSummary
}

// NewCatalogService wraps a loaded dataset and precomputes its summary.
func NewCatalogService(ds *models.Dataset, logger *utils.Logger) *CatalogService {
	s := &CatalogService{logger: logger.With("catalog"), dataset: ds}
	s.summary = s.summarise(ds.Records)
	s.logger.Info("Catalog ready: %d laptops, %d columns, price €%.2f-€%.2f",
		s.summary.TotalLaptops, s.summary.Features, s.summary.MinPrice, s.summary.MaxPrice)
	return s
}

// Records returns every laptop in load order. The slice is a copy; the
// records themselves are shared and must not be modified.
func (s *CatalogService) Records() []*models.LaptopRecord {
	out := make([]*models.LaptopRecord, len(s.dataset.Records))
	copy(out, s.dataset.Records)
	return out
}

// Len is the number of laptops in the catalog.
func (s *CatalogService) Len() int { return len(s.dataset.Records) }

// Summary returns the dashboard headline numbers.
func (s *CatalogService) Summary() models.CatalogSummary {
	cp := s.summary
	cp.LaptopsByBrand = make(map[string]int, len(s.summary.LaptopsByBrand))
	for k, v := range s.summary.LaptopsByBrand {
		cp.LaptopsByBrand[k] = v
	}
	return cp
}

func (s *CatalogService) summarise(records []*models.LaptopRecord) models.CatalogSummary {
	sum := models.CatalogSummary{
		TotalLaptops:   len(records),
		Features:       len(s.dataset.Columns),
		LaptopsByBrand: make(map[string]int),
	}
	if len(records) == 0 {
		return sum
	}

	sum.MinPrice = records[0].Price
	sum.MaxPrice = records[0].Price
	var total float64
	for _, l := range records {
		total += l.Price
		sum.MinPrice = math.Min(sum.MinPrice, l.Price)
		sum.MaxPrice = math.Max(sum.MaxPrice, l.Price)
		sum.MaxRAM = math.Max(sum.MaxRAM, l.RAM)
		sum.MaxCPU = math.Max(sum.MaxCPU, l.CPUFrequency)
		if l.Company != "" {
			sum.LaptopsByBrand[l.Company]++
		}
	}
	sum.AveragePrice = total / float64(len(records))
	return sum
}

// Head returns up to n laptops from the top of the catalog.
func (s *CatalogService) Head(n int) []*models.LaptopRecord {
	if n > len(s.dataset.Records) {
		n = len(s.dataset.Records)
	}
	if n < 0 {
		n = 0
	}
	out := make([]*models.LaptopRecord, n)
	copy(out, s.dataset.Records[:n])
	return out
}

// Filter keeps laptops inside the price range whose RAM and IPS values are
// in the given sets.
func (s *CatalogService) Filter(f models.CatalogFilter) []*models.LaptopRecord {
	ramSet := make(map[float64]struct{}, len(f.RAM))
	for _, r := range f.RAM {
		ramSet[r] = struct{}{}
	}
	ipsSet := make(map[int]struct{}, len(f.IPS))
	for _, v := range f.IPS {
		ipsSet[v] = struct{}{}
	}

	result := make([]*models.LaptopRecord, 0, len(s.dataset.Records))
	for _, l := range s.dataset.Records {
		if f.MinPrice != nil && l.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && l.Price > *f.MaxPrice {
			continue
		}
		if f.RAM != nil {
			if _, ok := ramSet[l.RAM]; !ok {
				continue
			}
		}
		if f.IPS != nil {
			if _, ok := ipsSet[l.IPSPanel]; !ok {
				continue
			}
		}
		result = append(result, l)
	}
	return result
}

// DistinctRAM returns the RAM sizes present in the catalog, ascending.
func (s *CatalogService) DistinctRAM() []float64 {
	seen := make(map[float64]struct{})
	var out []float64
	for _, l := range s.dataset.Records {
		if _, dup := seen[l.RAM]; dup {
			continue
		}
		seen[l.RAM] = struct{}{}
		out = append(out, l.RAM)
	}
	sort.Float64s(out)
	return out
}

// Describe computes count, mean, sample standard deviation, min, quartiles
// and max for every numeric column. Quartiles interpolate linearly between
// the closest ranks. Std is 0 for fewer than two rows.
func Describe(records []*models.LaptopRecord) []models.ColumnStats {
	stats := make([]models.ColumnStats, 0, len(models.NumericColumns))
	for _, col := range models.NumericColumns {
		vals := column(records, col)
		cs := models.ColumnStats{Column: col, Count: len(vals)}
		if len(vals) == 0 {
			stats = append(stats, cs)
			continue
		}

		sort.Float64s(vals)
		cs.Mean = mean(vals)
		cs.Std = stddev(vals, cs.Mean)
		cs.Min = vals[0]
		cs.Max = vals[len(vals)-1]
		cs.Q25 = quantile(vals, 0.25)
		cs.Median = quantile(vals, 0.5)
		cs.Q75 = quantile(vals, 0.75)
		stats = append(stats, cs)
	}
	return stats
}

// Histogram splits col into maxBins equal-width bins between its min and max.
func Histogram(records []*models.LaptopRecord, col string, maxBins int) ([]models.HistogramBin, error) {
	if !isNumericColumn(col) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	if maxBins < 1 {
		maxBins = 1
	}
	vals := column(records, col)
	if len(vals) == 0 {
		return []models.HistogramBin{}, nil
	}

	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return []models.HistogramBin{{Lower: lo, Upper: hi, Count: len(vals)}}, nil
	}

	width := (hi - lo) / float64(maxBins)
	bins := make([]models.HistogramBin, maxBins)
	for i := range bins {
		bins[i].Lower = lo + float64(i)*width
		bins[i].Upper = lo + float64(i+1)*width
	}
	bins[maxBins-1].Upper = hi

	for _, v := range vals {
		i := int((v - lo) / width)
		if i >= maxBins {
			i = maxBins - 1
		}
		bins[i].Count++
	}
	return bins, nil
}

// MeanBy groups records by the value of groupCol and averages valueCol.
// Groups are ordered by their numeric key.
func MeanBy(records []*models.LaptopRecord, groupCol, valueCol string) ([]models.GroupMean, error) {
	if !isNumericColumn(groupCol) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, groupCol)
	}
	if !isNumericColumn(valueCol) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, valueCol)
	}

	type acc struct {
		sum   float64
		count int
	}
	groups := make(map[float64]*acc)
	for _, l := range records {
		g, _ := l.Value(groupCol)
		v, _ := l.Value(valueCol)
		a, ok := groups[g]
		if !ok {
			a = &acc{}
			groups[g] = a
		}
		a.sum += v
		a.count++
	}

	keys := make([]float64, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	out := make([]models.GroupMean, 0, len(keys))
	for _, k := range keys {
		a := groups[k]
		out = append(out, models.GroupMean{
			Group: fmt.Sprintf("%g", k),
			Mean:  a.sum / float64(a.count),
			Count: a.count,
		})
	}
	return out, nil
}

// Correlation computes the Pearson correlation of every pair of numeric
// columns. Pairs involving a constant column are left nil.
func Correlation(records []*models.LaptopRecord) models.CorrMatrix {
	cols := models.NumericColumns
	data := make([][]float64, len(cols))
	for i, c := range cols {
		data[i] = column(records, c)
	}

	m := models.CorrMatrix{
		Columns: append([]string{}, cols...),
		Values:  make([][]*float64, len(cols)),
	}
	for i := range cols {
		m.Values[i] = make([]*float64, len(cols))
		for j := range cols {
			if r, ok := pearson(data[i], data[j]); ok {
				r := r
				m.Values[i][j] = &r
			}
		}
	}
	return m
}

func pearson(x, y []float64) (float64, bool) {
	n := len(x)
	if n < 2 || n != len(y) {
		return 0, false
	}
	mx, my := mean(x), mean(y)
	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, false
	}
	r := sxy / math.Sqrt(sxx*syy)
	return math.Max(-1, math.Min(1, r)), true
}

func column(records []*models.LaptopRecord, col string) []float64 {
	vals := make([]float64, 0, len(records))
	for _, l := range records {
		if v, ok := l.Value(col); ok {
			vals = append(vals, v)
		}
	}
	return vals
}

func isNumericColumn(col string) bool {
	for _, c := range models.NumericColumns {
		if c == col {
			return true
		}
	}
	return false
}

func mean(vals []float64) float64 {
	var total float64
	for _, v := range vals {
		total += v
	}
	return total / float64(len(vals))
}

func stddev(vals []float64, mu float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	var ss float64
	for _, v := range vals {
		ss += (v - mu) * (v - mu)
	}
	return math.Sqrt(ss / float64(len(vals)-1))
}

// quantile expects sorted input.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
