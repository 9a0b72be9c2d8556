package services

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"laptop-price/models"
	"laptop-price/utils"
)

// PredictorOptions tune how predictions are reported.
type PredictorOptions struct {
	// Rate converts euros into the local currency.
	Rate float64
	// StrictBrand rejects brands outside models.Brands. When false an
	// unknown brand is encoded as an all-zero brand block.
	StrictBrand bool
	// MarketAverage is the catalog's mean price, used for comparisons.
	MarketAverage float64
}

// Predictor turns a UserConfiguration into a price estimate with a
// pre-trained scaler and linear model. It holds no mutable state.
type Predictor struct {
	scaler *Scaler
	model  *LinearModel
	opts   PredictorOptions
	logger *utils.Logger
	now    func() time.Time
}

// NewPredictor checks that both artifacts were fitted on the current
// feature layout. Feature names, when both artifacts carry them, must
// match the layout exactly.
func NewPredictor(scaler *Scaler, model *LinearModel, opts PredictorOptions, logger *utils.Logger) (*Predictor, error) {
	want := models.FeatureWidth()
	if scaler.Width() != want {
		return nil, &models.ArtifactLoadError{Path: "scaler",
			Err: &models.ShapeMismatchError{Stage: "scaler", Want: want, Got: scaler.Width()}}
	}
	if model.Width() != want {
		return nil, &models.ArtifactLoadError{Path: "model",
			Err: &models.ShapeMismatchError{Stage: "model", Want: want, Got: model.Width()}}
	}

	cols := models.FeatureColumns()
	for _, a := range []struct {
		name  string
		names []string
	}{{"scaler", scaler.FeatureNames}, {"model", model.FeatureNames}} {
		if len(a.names) == 0 {
			continue
		}
		for i, n := range a.names {
			if n != cols[i] {
				return nil, &models.ArtifactLoadError{Path: a.name,
					Err: fmt.Errorf("feature %d is %q, expected %q", i, n, cols[i])}
			}
		}
	}

	return &Predictor{
		scaler: scaler,
		model:  model,
		opts:   opts,
		logger: logger.With("predictor"),
		now:    time.Now,
	}, nil
}

// BuildFeatureVector lays cfg out in models.FeatureColumns order. The
// second result reports whether the brand matched a brand column; when it
// did not, the brand block is all zeros.
func BuildFeatureVector(cfg models.UserConfiguration) (models.FeatureVector, bool) {
	v := make(models.FeatureVector, 0, models.FeatureWidth())
	v = append(v,
		cfg.Inches,
		cfg.CPUFrequency,
		float64(cfg.RAM),
		cfg.Weight,
		float64(cfg.Touchscreen),
		float64(cfg.SSD),
		float64(cfg.ResWidth),
		float64(cfg.ResHeight),
		float64(cfg.IPSPanel),
		float64(cfg.HDD),
	)

	matched := false
	for _, b := range models.Brands {
		if b == cfg.Brand {
			v = append(v, 1)
			matched = true
			continue
		}
		v = append(v, 0)
	}
	return v, matched
}

// IsKnownBrand reports whether brand has a one-hot column.
func IsKnownBrand(brand string) bool {
	for _, b := range models.Brands {
		if b == brand {
			return true
		}
	}
	return false
}

// Estimate returns the raw model output for cfg in euros.
func (p *Predictor) Estimate(cfg models.UserConfiguration) (float64, error) {
	v, known := BuildFeatureVector(cfg)
	if !known {
		if p.opts.StrictBrand {
			return 0, fmt.Errorf("%w: %q", models.ErrUnknownBrand, cfg.Brand)
		}
		p.logger.Warn("Brand %q has no column, encoding as all-zero", cfg.Brand)
	}

	scaled, err := p.scaler.Transform(v)
	if err != nil {
		return 0, err
	}
	price, err := p.model.Predict(scaled)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("model produced non-finite price %v", price)
	}
	return price, nil
}

// Predict estimates the price of cfg and derives the converted price and
// the comparison against the market average.
func (p *Predictor) Predict(cfg models.UserConfiguration) (*models.PredictionResult, error) {
	price, err := p.Estimate(cfg)
	if err != nil {
		return nil, err
	}

	res := &models.PredictionResult{
		ID:              uuid.NewString(),
		Price:           price,
		Converted:       Convert(price, p.opts.Rate),
		Rate:            p.opts.Rate,
		MarketAverage:   p.opts.MarketAverage,
		DiffFromAverage: price - p.opts.MarketAverage,
		Configuration:   cfg,
		CreatedAt:       p.now().UTC(),
	}
	if p.opts.MarketAverage != 0 {
		res.DiffPercent = res.DiffFromAverage / p.opts.MarketAverage * 100
	}

	p.logger.Debug("Predicted €%.2f for %s %.1fGHz/%dGB (id %s)",
		price, cfg.Brand, cfg.CPUFrequency, cfg.RAM, res.ID)
	return res, nil
}

// Rate is the configured euro conversion rate.
func (p *Predictor) Rate() float64 { return p.opts.Rate }

// Convert multiplies a euro price by rate.
func Convert(price, rate float64) float64 {
	return price * rate
}
