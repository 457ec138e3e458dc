// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shapelets

// Matrix is a dense row-major feature matrix. Row i holds the features of
// series i; shapelet j contributes columns 3j (min), 3j+1 (argmin) and
// 3j+2 (occurrences).
type Matrix struct {
	rows int
	cols int
	data []float64
}

func newMatrix(rows, cols int) *Matrix {
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// At returns the element at row i, column j.
func (m *Matrix) At(i, j int) float64 { return m.data[i*m.cols+j] }

// Row returns row i. The returned slice is NOT a copy.
func (m *Matrix) Row(i int) []float64 {
	return m.data[i*m.cols : (i+1)*m.cols : (i+1)*m.cols]
}

// Features returns the triplet of shapelet j on row i.
func (m *Matrix) Features(i, j int) Features {
	r := m.Row(i)[3*j:]
	return Features{Min: r[0], Argmin: r[1], Occurrences: r[2]}
}

// Data returns the underlying row-major buffer. The returned slice is
// NOT a copy.
func (m *Matrix) Data() []float64 { return m.data }

func (m *Matrix) set(i, j int, f Features) {
	r := m.Row(i)[3*j:]
	r[0], r[1], r[2] = f.Min, f.Argmin, f.Occurrences
}
