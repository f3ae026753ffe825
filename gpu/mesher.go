// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/isomesh"
)

// gpuTimeout bounds the fence wait for one extraction dispatch.
const gpuTimeout = 5 * time.Second

// Mesher owns a GPU device and the marching cubes compute pipeline.
// Create one with NewMesher, reuse it across chunks, and Close it when
// done. Mesher is not safe for concurrent use; serialize March calls or
// give each goroutine its own Mesher.
type Mesher struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline
}

// NewMesher opens a GPU device and builds the extraction pipeline.
// Returns ErrGPUUnavailable when no Vulkan adapter exists.
func NewMesher() (*Mesher, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan backend not registered", ErrGPUUnavailable)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %v", ErrGPUUnavailable, err)
	}

	m := &Mesher{instance: instance}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		m.Close()
		return nil, fmt.Errorf("%w: no adapters found", ErrGPUUnavailable)
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		m.Close()
		return nil, fmt.Errorf("gpu: open device: %w", err)
	}
	m.device = openDev.Device
	m.queue = openDev.Queue

	if err := m.createPipeline(); err != nil {
		m.Close()
		return nil, err
	}

	isomesh.Logger().Info("gpu: mesher initialized", "adapter", selected.Info.Name)
	return m, nil
}

// createPipeline compiles the kernel through naga to SPIR-V and builds
// the bind group layout, pipeline layout and compute pipeline.
func (m *Mesher) createPipeline() error {
	spirvBytes, err := naga.Compile(mcubesShaderSource)
	if err != nil {
		return fmt.Errorf("gpu: compile kernel: %w", err)
	}
	// SPIR-V is little-endian 32-bit words.
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	shader, err := m.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "mcubes",
		Source: hal.ShaderSource{SPIRV: spirvCode},
	})
	if err != nil {
		return fmt.Errorf("gpu: create shader module: %w", err)
	}
	m.shader = shader

	bindLayout, err := m.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "mcubes_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create bind group layout: %w", err)
	}
	m.bindLayout = bindLayout

	pipeLayout, err := m.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "mcubes_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{m.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("gpu: create pipeline layout: %w", err)
	}
	m.pipeLayout = pipeLayout

	pipeline, err := m.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "mcubes_pipeline", Layout: m.pipeLayout,
		Compute: hal.ComputeState{Module: m.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("gpu: create compute pipeline: %w", err)
	}
	m.pipeline = pipeline
	return nil
}

// March extracts the isosurface of a cubic grid on the GPU. field holds
// the lattice values from Grid.SampleField; the grid must be cubic
// because the kernel takes a single size.
//
// Triangles come back in cell index order, matching the CPU meshers.
func (m *Mesher) March(grid isomesh.Grid, field []float32, isoLevel float32) ([]isomesh.Triangle, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	n := grid.Size[0]
	if grid.Size[1] != n || grid.Size[2] != n {
		return nil, fmt.Errorf("gpu: grid %v is not cubic", grid.Size)
	}
	lattice := (n + 1) * (n + 1) * (n + 1)
	if len(field) != lattice {
		return nil, fmt.Errorf("gpu: field has %d samples, want %d for %d cells per axis",
			len(field), lattice, n)
	}
	cellCount := grid.CellCount()

	fieldBytes := make([]byte, len(field)*4)
	for i, v := range field {
		putFloat(fieldBytes[i*4:], v)
	}
	cubesSize := uint64(cellCount) * cubeStride

	configBuf, err := m.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mcubes_config", Size: configSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create config buffer: %w", err)
	}
	defer m.device.DestroyBuffer(configBuf)

	fieldBuf, err := m.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mcubes_field", Size: uint64(len(fieldBytes)),
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create field buffer: %w", err)
	}
	defer m.device.DestroyBuffer(fieldBuf)

	cubesBuf, err := m.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mcubes_cells", Size: cubesSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create cell buffer: %w", err)
	}
	defer m.device.DestroyBuffer(cubesBuf)

	stagingBuf, err := m.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mcubes_staging", Size: cubesSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create staging buffer: %w", err)
	}
	defer m.device.DestroyBuffer(stagingBuf)

	m.queue.WriteBuffer(configBuf, 0, configBytes(uint32(n), isoLevel, grid.CellSize, grid.Origin))
	m.queue.WriteBuffer(fieldBuf, 0, fieldBytes)

	bindGroup, err := m.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "mcubes_bind", Layout: m.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: configBuf.NativeHandle(), Offset: 0, Size: configSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: fieldBuf.NativeHandle(), Offset: 0, Size: uint64(len(fieldBytes))}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: cubesBuf.NativeHandle(), Offset: 0, Size: cubesSize}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create bind group: %w", err)
	}
	defer m.device.DestroyBindGroup(bindGroup)

	encoder, err := m.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "mcubes_encoder"})
	if err != nil {
		return nil, fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("mcubes"); err != nil {
		return nil, fmt.Errorf("gpu: begin encoding: %w", err)
	}

	groups := uint32((n + 7) / 8)
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "mcubes_pass"})
	pass.SetPipeline(m.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Dispatch(groups, groups, groups)
	pass.End()

	encoder.CopyBufferToBuffer(cubesBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: cubesSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer m.device.FreeCommandBuffer(cmdBuf)

	fence, err := m.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("gpu: create fence: %w", err)
	}
	defer m.device.DestroyFence(fence)
	if err := m.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("gpu: submit: %w", err)
	}
	fenceOK, err := m.device.Wait(fence, 1, gpuTimeout)
	if err != nil || !fenceOK {
		return nil, fmt.Errorf("gpu: wait for dispatch: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, cubesSize)
	if err := m.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return nil, fmt.Errorf("gpu: readback: %w", err)
	}

	tris := decodeCells(readback, cellCount)
	isomesh.Logger().Debug("gpu: march complete",
		"cells", cellCount, "triangles", len(tris), "workgroups", groups)
	return tris, nil
}

// Close releases the pipeline and device. Safe to call on a partially
// initialized mesher.
func (m *Mesher) Close() {
	if m.device != nil {
		if m.pipeline != nil {
			m.device.DestroyComputePipeline(m.pipeline)
			m.pipeline = nil
		}
		if m.pipeLayout != nil {
			m.device.DestroyPipelineLayout(m.pipeLayout)
			m.pipeLayout = nil
		}
		if m.bindLayout != nil {
			m.device.DestroyBindGroupLayout(m.bindLayout)
			m.bindLayout = nil
		}
		if m.shader != nil {
			m.device.DestroyShaderModule(m.shader)
			m.shader = nil
		}
		m.device.Destroy()
		m.device = nil
	}
	if m.instance != nil {
		m.instance.Destroy()
		m.instance = nil
	}
	m.queue = nil
}
