package audio

import (
	"reflect"
	"testing"
)

func TestDownmix(t *testing.T) {
	stereo := []float32{0.5, -0.5, 1.0, 0.0, -0.2, -0.4}
	mono := Downmix(stereo, 2)

	want := []float32{0.0, 0.5, -0.3}
	if len(mono) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(mono))
	}
	for i := range want {
		if diff := mono[i] - want[i]; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("sample %d: expected %f, got %f", i, want[i], mono[i])
		}
	}
}

func TestDownmix_MonoPassthrough(t *testing.T) {
	in := []float32{0.1, 0.2, 0.3}
	out := Downmix(in, 1)
	if !reflect.DeepEqual(in, out) {
		t.Errorf("mono downmix should be identity, got %v", out)
	}
	out[0] = 9
	if in[0] == 9 {
		t.Error("downmix should copy, not alias, the input")
	}
}

func TestFloat32ToInt16_Clamps(t *testing.T) {
	samples := Float32ToInt16([]float32{2.0, -2.0, 0.0, 1.0, -1.0})

	if samples[0] != 32767 {
		t.Errorf("over-range should clamp to 32767, got %d", samples[0])
	}
	if samples[1] != -32767 {
		t.Errorf("under-range should clamp to -32767, got %d", samples[1])
	}
	if samples[2] != 0 {
		t.Errorf("zero should stay zero, got %d", samples[2])
	}
}

func TestPCMBytes_RoundTrip(t *testing.T) {
	in := []int16{0, 1, -1, 32767, -32768, 12345}
	out := PCMBytesToInt16(Int16ToPCMBytes(in))
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch: %v vs %v", in, out)
	}
}

func TestPCM16Base64_RoundTrip(t *testing.T) {
	in := []int16{100, -100, 0, 30000}
	out, err := DecodePCM16Base64(EncodePCM16Base64(in))
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch: %v vs %v", in, out)
	}
}

func TestDecodePCM16Base64_Invalid(t *testing.T) {
	if _, err := DecodePCM16Base64("not base64!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
}
