package gemmcheck

import (
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// CPUFeatures tracks the instruction set extensions GEMM kernels commonly
// dispatch on. Results carry them so timings from different machines are
// not compared blindly.
type CPUFeatures struct {
	Arch       string `json:"arch"`
	HasSSE4    bool   `json:"sse4,omitempty"`
	HasAVX     bool   `json:"avx,omitempty"`
	HasAVX2    bool   `json:"avx2,omitempty"`
	HasFMA     bool   `json:"fma,omitempty"`
	HasAVX512F bool   `json:"avx512f,omitempty"`
	HasNEON    bool   `json:"neon,omitempty"`
	HasSVE     bool   `json:"sve,omitempty"`
	HasFP16    bool   `json:"fp16,omitempty"`
}

var cpuFeatures = detectCPUFeatures()

func detectCPUFeatures() CPUFeatures {
	return CPUFeatures{
		Arch:       runtime.GOARCH,
		HasSSE4:    cpu.X86.HasSSE41 || cpu.X86.HasSSE42,
		HasAVX:     cpu.X86.HasAVX,
		HasAVX2:    cpu.X86.HasAVX2,
		HasFMA:     cpu.X86.HasFMA,
		HasAVX512F: cpu.X86.HasAVX512F,
		HasNEON:    cpu.ARM64.HasASIMD,
		HasSVE:     cpu.ARM64.HasSVE,
		HasFP16:    cpu.ARM64.HasFPHP && cpu.ARM64.HasASIMDHP,
	}
}

// DetectedCPU returns the features of the machine the harness runs on.
func DetectedCPU() CPUFeatures {
	return cpuFeatures
}

// Names lists the detected features.
func (f CPUFeatures) Names() []string {
	var names []string
	for _, e := range []struct {
		on   bool
		name string
	}{
		{f.HasSSE4, "SSE4"},
		{f.HasAVX, "AVX"},
		{f.HasAVX2, "AVX2"},
		{f.HasFMA, "FMA"},
		{f.HasAVX512F, "AVX512F"},
		{f.HasNEON, "NEON"},
		{f.HasSVE, "SVE"},
		{f.HasFP16, "FP16"},
	} {
		if e.on {
			names = append(names, e.name)
		}
	}
	return names
}

// String returns a string describing the detected features
func (f CPUFeatures) String() string {
	names := f.Names()
	if len(names) == 0 {
		return f.Arch + ": no SIMD extensions detected"
	}
	return f.Arch + ": " + strings.Join(names, ", ")
}
