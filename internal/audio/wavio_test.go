package audio

import (
	"math"
	"path/filepath"
	"testing"
)

func TestWAV_WriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")

	in := make([]int16, 2400)
	for i := range in {
		in[i] = int16(10000 * math.Sin(2*math.Pi*440*float64(i)/24000))
	}

	if err := WriteWAVPCM16(path, in, 24000); err != nil {
		t.Fatalf("WriteWAVPCM16 error: %v", err)
	}

	samples, rate, channels, err := ReadWAVFloat32(path)
	if err != nil {
		t.Fatalf("ReadWAVFloat32 error: %v", err)
	}
	if rate != 24000 {
		t.Errorf("expected 24000 Hz, got %d", rate)
	}
	if channels != 1 {
		t.Errorf("expected mono, got %d channels", channels)
	}
	if len(samples) != len(in) {
		t.Fatalf("expected %d samples, got %d", len(in), len(samples))
	}

	for i := range in {
		got := float64(samples[i]) * 32768.0
		if math.Abs(got-float64(in[i])) > 1.5 {
			t.Fatalf("sample %d: expected ~%d, got %f", i, in[i], got)
		}
	}
}

func TestReadWAVFloat32_MissingFile(t *testing.T) {
	if _, _, _, err := ReadWAVFloat32(filepath.Join(t.TempDir(), "nope.wav")); err == nil {
		t.Error("expected error for missing file")
	}
}
