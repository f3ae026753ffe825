// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/isomesh"
)

// Mesher is a placeholder under the nogpu build tag. NewMesher always
// fails; use the CPU meshers instead.
type Mesher struct{}

// NewMesher reports that GPU support was compiled out.
func NewMesher() (*Mesher, error) {
	return nil, fmt.Errorf("%w: built with nogpu tag", ErrGPUUnavailable)
}

// March never runs under nogpu.
func (m *Mesher) March(isomesh.Grid, []float32, float32) ([]isomesh.Triangle, error) {
	return nil, fmt.Errorf("%w: built with nogpu tag", ErrGPUUnavailable)
}

// Close is a no-op under nogpu.
func (m *Mesher) Close() {}
