package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"laptop-price/models"
)

// Scaler is a fitted standard scaler: each feature is centred on Mean and
// divided by Scale.
type Scaler struct {
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
	FeatureNames []string  `json:"feature_names,omitempty"`
}

// LinearModel is a fitted linear regressor over scaled features.
type LinearModel struct {
	Coef         []float64 `json:"coef"`
	Intercept    float64   `json:"intercept"`
	FeatureNames []string  `json:"feature_names,omitempty"`
}

// LoadScaler reads a scaler exported as JSON.
func LoadScaler(path string) (*Scaler, error) {
	var s Scaler
	if err := readArtifact(path, &s); err != nil {
		return nil, err
	}
	if len(s.Mean) == 0 {
		return nil, &models.ArtifactLoadError{Path: path, Err: errors.New("scaler has no features")}
	}
	if len(s.Mean) != len(s.Scale) {
		return nil, &models.ArtifactLoadError{Path: path,
			Err: fmt.Errorf("scaler mean has %d entries, scale has %d", len(s.Mean), len(s.Scale))}
	}
	if err := checkNames(s.FeatureNames, len(s.Mean)); err != nil {
		return nil, &models.ArtifactLoadError{Path: path, Err: err}
	}
	if err := checkFinite(append(append([]float64{}, s.Mean...), s.Scale...)); err != nil {
		return nil, &models.ArtifactLoadError{Path: path, Err: err}
	}
	return &s, nil
}

// LoadModel reads a linear model exported as JSON.
func LoadModel(path string) (*LinearModel, error) {
	var m LinearModel
	if err := readArtifact(path, &m); err != nil {
		return nil, err
	}
	if len(m.Coef) == 0 {
		return nil, &models.ArtifactLoadError{Path: path, Err: errors.New("model has no coefficients")}
	}
	if err := checkNames(m.FeatureNames, len(m.Coef)); err != nil {
		return nil, &models.ArtifactLoadError{Path: path, Err: err}
	}
	if err := checkFinite(append(append([]float64{}, m.Coef...), m.Intercept)); err != nil {
		return nil, &models.ArtifactLoadError{Path: path, Err: err}
	}
	return &m, nil
}

func readArtifact(path string, into any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return &models.ArtifactLoadError{Path: path, Err: err}
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return &models.ArtifactLoadError{Path: path, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

func checkNames(names []string, width int) error {
	if len(names) != 0 && len(names) != width {
		return fmt.Errorf("%d feature names for %d features", len(names), width)
	}
	return nil
}

func checkFinite(vals []float64) error {
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite parameter at position %d", i)
		}
	}
	return nil
}

// Width is the number of features the scaler was fitted on.
func (s *Scaler) Width() int { return len(s.Mean) }

// Transform standardises v. A zero scale leaves the centred value as is.
func (s *Scaler) Transform(v models.FeatureVector) (models.FeatureVector, error) {
	if len(v) != len(s.Mean) {
		return nil, &models.ShapeMismatchError{Stage: "scaler transform", Want: len(s.Mean), Got: len(v)}
	}
	out := make(models.FeatureVector, len(v))
	for i, x := range v {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (x - s.Mean[i]) / scale
	}
	return out, nil
}

// Width is the number of coefficients of the model.
func (m *LinearModel) Width() int { return len(m.Coef) }

// Predict returns intercept + coef·v.
func (m *LinearModel) Predict(v models.FeatureVector) (float64, error) {
	if len(v) != len(m.Coef) {
		return 0, &models.ShapeMismatchError{Stage: "model predict", Want: len(m.Coef), Got: len(v)}
	}
	y := m.Intercept
	for i, x := range v {
		y += m.Coef[i] * x
	}
	return y, nil
}
