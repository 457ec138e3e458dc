// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shapelets

import (
	"fmt"

	"go.uber.org/zap"
)

// Transform bundles generation, calibration and application of a random
// dilated shapelet set behind a fit/transform interface.
type Transform struct {
	cfg  Config
	opts []Option
	log  *zap.Logger
	gen  *Generation
}

// NewTransform returns an unfitted Transform.
func NewTransform(cfg Config, opts ...Option) *Transform {
	return &Transform{cfg: cfg, opts: opts, log: newOptions(opts).logger}
}

// Fit generates shapelets from x and, when the configuration asks for it,
// calibrates their thresholds with labels. A previous fit is discarded.
func (t *Transform) Fit(x Series, labels []int) error {
	gen, err := Generate(x, labels, t.cfg, t.opts...)
	if err != nil {
		return fmt.Errorf("failed to generate shapelets: %w", err)
	}
	if t.cfg.Calibrate {
		if err := Calibrate(x, labels, gen, t.cfg, t.opts...); err != nil {
			return fmt.Errorf("failed to calibrate shapelets: %w", err)
		}
	}
	t.gen = gen
	return nil
}

// Transform applies the fitted shapelets to x.
func (t *Transform) Transform(x Series) (*Matrix, error) {
	if t.gen == nil {
		return nil, ErrNotFitted
	}
	return Apply(x, t.gen.Set, t.cfg.UsePhase, t.opts...)
}

// FitTransform fits the transform on x and applies it to x.
func (t *Transform) FitTransform(x Series, labels []int) (*Matrix, error) {
	if err := t.Fit(x, labels); err != nil {
		return nil, err
	}
	return t.Transform(x)
}

// Shapelets returns the fitted set, or nil before Fit.
func (t *Transform) Shapelets() *ShapeletSet {
	if t.gen == nil {
		return nil
	}
	return t.gen.Set
}

// Provenance returns where the fitted shapelets were extracted from, or
// nil before Fit.
func (t *Transform) Provenance() *Provenance {
	if t.gen == nil {
		return nil
	}
	return t.gen.Provenance
}

// Degenerate returns how many fitted shapelets could not be sampled.
func (t *Transform) Degenerate() int {
	if t.gen == nil {
		return 0
	}
	return t.gen.Degenerate
}

// Load installs a previously saved set, as returned by ReadShapeletSet,
// in place of a fit.
func (t *Transform) Load(set *ShapeletSet, prov *Provenance) error {
	if err := set.checkLayout(); err != nil {
		return err
	}
	if prov == nil {
		prov = newProvenance(set.Len())
	}
	if len(prov.Samples) != set.Len() || len(prov.Starts) != set.Len() {
		return fmt.Errorf("%w: provenance of %d/%d shapelets for %d shapelets",
			ErrShapeMismatch, len(prov.Samples), len(prov.Starts), set.Len())
	}
	degenerate := 0
	for _, s := range prov.Samples {
		if s < 0 {
			degenerate++
		}
	}
	t.gen = &Generation{Set: set, Provenance: prov, Degenerate: degenerate}
	t.log.Debug("loaded shapelet set", zap.Int("shapelets", set.Len()))
	return nil
}
