package audio

import (
	"encoding/base64"
	"encoding/binary"
)

// Downmix averages interleaved multi-channel samples into mono.
func Downmix(interleaved []float32, channels int) []float32 {
	if channels <= 1 {
		mono := make([]float32, len(interleaved))
		copy(mono, interleaved)
		return mono
	}

	mono := make([]float32, 0, len(interleaved)/channels)
	for i := 0; i+channels <= len(interleaved); i += channels {
		var sum float32
		for _, s := range interleaved[i : i+channels] {
			sum += s
		}
		mono = append(mono, sum/float32(channels))
	}
	return mono
}

func Int16ToFloat32(samples []int16) []float32 {
	result := make([]float32, len(samples))
	for i, s := range samples {
		result[i] = float32(s) / 32768.0
	}
	return result
}

func Float32ToInt16(samples []float32) []int16 {
	result := make([]int16, len(samples))
	for i, s := range samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		result[i] = int16(s * 32767.0)
	}
	return result
}

func PCMBytesToInt16(pcm []byte) []int16 {
	samples := make([]int16, len(pcm)/2)
	for i := 0; i < len(samples); i++ {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm[i*2:]))
	}
	return samples
}

func Int16ToPCMBytes(samples []int16) []byte {
	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(s))
	}
	return pcm
}

// EncodePCM16Base64 packs samples as little-endian PCM16 and encodes
// them for an audio append frame.
func EncodePCM16Base64(samples []int16) string {
	return base64.StdEncoding.EncodeToString(Int16ToPCMBytes(samples))
}

// DecodePCM16Base64 reverses EncodePCM16Base64 for an audio delta
// payload.
func DecodePCM16Base64(b64 string) ([]int16, error) {
	pcm, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, err
	}
	return PCMBytesToInt16(pcm), nil
}
