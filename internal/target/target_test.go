package target

import (
	"strings"
	"testing"
)

func TestCheckVectorWidth_ARM(t *testing.T) {
	arm := FromTriple("aarch64-unknown-linux-gnu", "")

	tests := []struct {
		name         string
		elementBits  int
		width        int
		wantErr      bool
		wantContains string
	}{
		{"f32x4 ok", 32, 4, false, ""},
		{"i8x16 ok", 8, 16, false, ""},
		{"f32x8 rejected", 32, 8, true, "NEON"},
		{"f32x16 rejected", 32, 16, true, "NEON"},
		{"i32x8 rejected", 32, 8, true, "NEON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := arm.CheckVectorWidth(tt.elementBits, tt.width)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckVectorWidth(%d,%d) error = %v, wantErr %v", tt.elementBits, tt.width, err, tt.wantErr)
			}
			if tt.wantErr && tt.wantContains != "" && !strings.Contains(err.Error(), tt.wantContains) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantContains)
			}
		})
	}
}

func TestCheckVectorWidth_X86(t *testing.T) {
	host := Host()
	if err := host.CheckVectorWidth(32, 8); err != nil {
		t.Errorf("x86 host should accept f32x8 (AVX2 default): %v", err)
	}
	if err := host.CheckVectorWidth(32, 16); err == nil {
		t.Error("x86 host without AVX-512 should reject f32x16")
	} else if !strings.Contains(err.Error(), "AVX-512") {
		t.Errorf("error should mention AVX-512, got: %v", err)
	}

	avx512 := FromTriple("", "+avx512f")
	if err := avx512.CheckVectorWidth(32, 16); err != nil {
		t.Errorf("target with +avx512f should accept f32x16: %v", err)
	}
}

func TestCheckIntrinsic_ARM(t *testing.T) {
	arm := FromTriple("aarch64-unknown-linux-gnu", "")
	for _, name := range []string{"maddubs_i16", "maddubs_i32"} {
		if err := arm.CheckIntrinsic(name); err == nil || !strings.Contains(err.Error(), "x86") {
			t.Errorf("%s on ARM: expected x86 mention, got %v", name, err)
		}
	}
	for _, name := range []string{"gather", "scatter"} {
		err := arm.CheckIntrinsic(name)
		if err == nil {
			t.Errorf("%s on ARM should be rejected", name)
		}
	}
}

func TestCheckIntrinsic_ScatterRequiresAVX512(t *testing.T) {
	host := Host()
	if err := host.CheckIntrinsic("scatter"); err == nil || !strings.Contains(err.Error(), "AVX-512") {
		t.Errorf("scatter without AVX-512 should mention AVX-512, got %v", err)
	}
	host.AVX512 = true
	if err := host.CheckIntrinsic("scatter"); err != nil {
		t.Errorf("scatter with AVX-512 should be accepted: %v", err)
	}
	if err := host.CheckIntrinsic("gather"); err != nil {
		t.Errorf("gather on x86 should always be accepted: %v", err)
	}
}
