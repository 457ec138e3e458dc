// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shapelets

import "errors"

var (
	// ErrInvalidConfig is returned when generation parameters are not
	// admissible for the given series tensor. It is detected before any
	// random draw happens.
	ErrInvalidConfig = errors.New("invalid shapelet configuration")

	// ErrShapeMismatch is returned when a series tensor, a label slice or a
	// shapelet set disagree on their dimensions.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrOutOfRange is returned when a subsequence would read past the end
	// of a series without phase invariance.
	ErrOutOfRange = errors.New("subsequence out of range")

	// ErrNotFitted is returned by Transform methods used before Fit.
	ErrNotFitted = errors.New("transform is not fitted")
)
