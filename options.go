// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shapelets

import (
	"runtime"

	"go.uber.org/zap"
)

// Option configures runtime aspects of Generate, Calibrate and Apply.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	workers int
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithWorkers bounds the number of goroutines running concurrently.
// Values < 1 select runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.NumCPU()
	}
	return o
}
