package services

import (
	"errors"
	"fmt"

	"laptop-price/models"
)

const vegaLiteSchema = "https://vega.github.io/schema/vega-lite/v5.json"

// Chart names served by the API and embedded in the pages.
const (
	ChartPriceHistogram = "price-histogram"
	ChartPriceVsRAM     = "price-vs-ram"
	ChartPriceVsCPU     = "price-vs-cpu"
	ChartPriceVsWeight  = "price-vs-weight"
	ChartIPSMeanPrice   = "ips-mean-price"
	ChartCorrelation    = "correlation"
)

var ErrUnknownChart = errors.New("unknown chart")

// ChartSpec is a Vega-Lite specification, rendered client-side by vega-embed.
type ChartSpec map[string]any

// ChartNames lists every catalog chart, in page order.
func ChartNames() []string {
	return []string{
		ChartPriceHistogram, ChartPriceVsRAM, ChartPriceVsCPU,
		ChartIPSMeanPrice, ChartPriceVsWeight, ChartCorrelation,
	}
}

// axisConfig is shared by the analysis charts.
var axisConfig = map[string]any{
	"labelColor":    "#1E293B",
	"titleColor":    "#2563EB",
	"labelFontSize": 12,
	"titleFontSize": 14,
}

// BuildChart returns the named chart over records.
func BuildChart(name string, records []*models.LaptopRecord) (ChartSpec, error) {
	switch name {
	case ChartPriceHistogram:
		return PriceHistogramChart(records)
	case ChartPriceVsRAM:
		return scatterChart(records, "ram", "RAM (GB)", "purples", "#EFF6FF",
			[]string{"ram", "price", "cpu_frequency", "ssd"}), nil
	case ChartPriceVsCPU:
		return scatterChart(records, "cpu_frequency", "CPU Frequency (GHz)", "reds", "#F5F3FF",
			[]string{"cpu_frequency", "price", "ram", "ssd"}), nil
	case ChartPriceVsWeight:
		return scatterChart(records, "weight", "Weight (kg)", "teals", "#EAF7F0",
			[]string{"weight", "price", "inches", "ram"}), nil
	case ChartIPSMeanPrice:
		return IPSMeanPriceChart(records)
	case ChartCorrelation:
		return CorrelationChart(records), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownChart, name)
}

// PriceHistogramChart bins prices into 30 bars.
func PriceHistogramChart(records []*models.LaptopRecord) (ChartSpec, error) {
	bins, err := Histogram(records, models.ColPrice, 30)
	if err != nil {
		return nil, err
	}
	values := make([]map[string]any, 0, len(bins))
	for _, b := range bins {
		values = append(values, map[string]any{"lower": b.Lower, "upper": b.Upper, "count": b.Count})
	}
	return ChartSpec{
		"$schema": vegaLiteSchema,
		"height":  300,
		"width":   "container",
		"data":    map[string]any{"values": values},
		"mark":    map[string]any{"type": "bar", "color": "#483D8B"},
		"encoding": map[string]any{
			"x":       map[string]any{"field": "lower", "bin": map[string]any{"binned": true}, "type": "quantitative", "title": "Price (€)"},
			"x2":      map[string]any{"field": "upper"},
			"y":       map[string]any{"field": "count", "type": "quantitative", "title": "Frequency"},
			"tooltip": []map[string]any{{"field": "count", "type": "quantitative"}},
		},
	}, nil
}

func scatterChart(records []*models.LaptopRecord, field, title, scheme, background string, tooltip []string) ChartSpec {
	tips := make([]map[string]any, 0, len(tooltip))
	for _, t := range tooltip {
		tips = append(tips, map[string]any{"field": t, "type": "quantitative"})
	}
	return ChartSpec{
		"$schema":    vegaLiteSchema,
		"height":     350,
		"width":      "container",
		"background": background,
		"data":       map[string]any{"values": records},
		"mark":       map[string]any{"type": "circle", "size": 70, "opacity": 0.7},
		"params":     []map[string]any{{"name": "zoom", "select": "interval", "bind": "scales"}},
		"encoding": map[string]any{
			"x":       map[string]any{"field": field, "type": "quantitative", "title": title, "scale": map[string]any{"zero": false}},
			"y":       map[string]any{"field": "price", "type": "quantitative", "title": "Price (€)", "scale": map[string]any{"zero": false}},
			"color":   map[string]any{"field": field, "type": "quantitative", "scale": map[string]any{"scheme": scheme}, "legend": nil},
			"tooltip": tips,
		},
		"config": map[string]any{"axis": axisConfig},
	}
}

// IPSMeanPriceChart compares the average price with and without an IPS panel.
func IPSMeanPriceChart(records []*models.LaptopRecord) (ChartSpec, error) {
	groups, err := MeanBy(records, models.ColIPS, models.ColPrice)
	if err != nil {
		return nil, err
	}
	return ChartSpec{
		"$schema":    vegaLiteSchema,
		"height":     350,
		"width":      "container",
		"background": "#FCEEFF",
		"data":       map[string]any{"values": groups},
		"mark":       map[string]any{"type": "bar", "cornerRadius": 10},
		"encoding": map[string]any{
			"x": map[string]any{"field": "group", "type": "nominal", "title": "IPS Panel", "axis": map[string]any{"labelAngle": 0}},
			"y": map[string]any{"field": "mean", "type": "quantitative", "title": "Average Price (€)"},
			"color": map[string]any{"field": "group", "type": "nominal", "legend": nil,
				"scale": map[string]any{"domain": []string{"0", "1"}, "range": []string{"#94A3B8", "#10B981"}}},
			"tooltip": []map[string]any{
				{"field": "group", "type": "nominal", "title": "IPS Panel"},
				{"field": "mean", "type": "quantitative", "title": "Average Price (€)", "format": ",.0f"},
				{"field": "count", "type": "quantitative"},
			},
		},
		"config": map[string]any{"axis": axisConfig},
	}, nil
}

// CorrelationChart renders the Pearson matrix as a heatmap.
func CorrelationChart(records []*models.LaptopRecord) ChartSpec {
	m := Correlation(records)
	values := make([]map[string]any, 0, len(m.Columns)*len(m.Columns))
	for i, row := range m.Columns {
		for j, col := range m.Columns {
			values = append(values, map[string]any{"index": row, "variable": col, "value": m.Values[i][j]})
		}
	}
	return ChartSpec{
		"$schema":    vegaLiteSchema,
		"height":     400,
		"width":      "container",
		"background": "#F3F4F6",
		"data":       map[string]any{"values": values},
		"mark":       "rect",
		"encoding": map[string]any{
			"x":     map[string]any{"field": "index", "type": "nominal", "title": "", "sort": m.Columns},
			"y":     map[string]any{"field": "variable", "type": "nominal", "title": "", "sort": m.Columns},
			"color": map[string]any{"field": "value", "type": "quantitative", "scale": map[string]any{"scheme": "purplered", "domain": []float64{-1, 1}}},
			"tooltip": []map[string]any{
				{"field": "index", "type": "nominal"},
				{"field": "variable", "type": "nominal"},
				{"field": "value", "type": "quantitative", "format": ".2f"},
			},
		},
		"config": map[string]any{"axis": axisConfig},
	}
}

// Comparison categories, in display order.
var comparisonOrder = []string{"Your Prediction", "Market Average", "Minimum", "Maximum"}

// PredictionComparisonChart sets a prediction against the catalog's average, min and max price.
func PredictionComparisonChart(res *models.PredictionResult, summary models.CatalogSummary) ChartSpec {
	prices := map[string]float64{
		"Your Prediction": res.Price,
		"Market Average":  summary.AveragePrice,
		"Minimum":         summary.MinPrice,
		"Maximum":         summary.MaxPrice,
	}
	values := make([]map[string]any, 0, len(prices))
	for _, c := range comparisonOrder {
		values = append(values, map[string]any{"category": c, "price": prices[c]})
	}
	return ChartSpec{
		"$schema":    vegaLiteSchema,
		"height":     300,
		"width":      "container",
		"background": "#111827",
		"data":       map[string]any{"values": values},
		"mark":       "bar",
		"encoding": map[string]any{
			"x": map[string]any{"field": "category", "type": "nominal", "sort": comparisonOrder, "title": nil},
			"y": map[string]any{"field": "price", "type": "quantitative", "title": "Price (€)"},
			"color": map[string]any{"field": "category", "type": "nominal",
				"scale": map[string]any{"domain": comparisonOrder, "range": []string{"#48bb78", "#4299e1", "#EAF7F0", "#EAF7F0"}}},
			"tooltip": []map[string]any{
				{"field": "category", "type": "nominal"},
				{"field": "price", "type": "quantitative", "format": ",.0f"},
			},
		},
		"config": map[string]any{"axis": map[string]any{"labelColor": "#EAF7F0", "titleColor": "#EAF7F0", "labelFontSize": 12}},
	}
}
