package models

import (
	"errors"
	"fmt"
)

// ErrUnknownBrand is returned when a configuration names a brand outside Brands.
var ErrUnknownBrand = errors.New("unknown brand")

// DataLoadError reports a catalog that could not be read.
type DataLoadError struct {
	Source string
	Column string
	Row    int
	Err    error
}

func (e *DataLoadError) Error() string {
	switch {
	case e.Column != "" && e.Row > 0:
		return fmt.Sprintf("data load %s: row %d column %q: %v", e.Source, e.Row, e.Column, e.Err)
	case e.Column != "":
		return fmt.Sprintf("data load %s: column %q: %v", e.Source, e.Column, e.Err)
	}
	return fmt.Sprintf("data load %s: %v", e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// ArtifactLoadError reports a model or scaler that is missing, corrupt
// or does not fit the feature vector.
type ArtifactLoadError struct {
	Path string
	Err  error
}

func (e *ArtifactLoadError) Error() string {
	return fmt.Sprintf("artifact %s: %v", e.Path, e.Err)
}

func (e *ArtifactLoadError) Unwrap() error { return e.Err }

// ShapeMismatchError is returned when a vector's width differs from what an artifact was fit on.
type ShapeMismatchError struct {
	Stage string
	Want  int
	Got   int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %d features, got %d", e.Stage, e.Want, e.Got)
}
