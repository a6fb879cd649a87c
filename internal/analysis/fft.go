package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Spectrum is a one-sided amplitude spectrum.
type Spectrum struct {
	Freq  []float64
	Power []float64
}

// PowerSpectrum returns the one-sided amplitude spectrum of data sampled
// every dt. The mean is removed first so a constant offset does not
// dominate the zero bin. Any length is accepted.
func PowerSpectrum(data []float64, dt float64) Spectrum {
	n := len(data)
	if n < 2 || dt <= 0 {
		return Spectrum{}
	}

	centered := make([]float64, n)
	copy(centered, data)
	floats.AddConst(-stat.Mean(data, nil), centered)

	coeffs := fft.FFTReal(centered)
	half := n/2 + 1
	s := Spectrum{
		Freq:  make([]float64, half),
		Power: make([]float64, half),
	}
	for k := 0; k < half; k++ {
		s.Freq[k] = float64(k) / (float64(n) * dt)
		s.Power[k] = cmplx.Abs(coeffs[k])
	}
	return s
}

// DominantFrequency is the frequency of the strongest non-zero bin.
func DominantFrequency(data []float64, dt float64) (freq, power float64) {
	s := PowerSpectrum(data, dt)
	if len(s.Power) < 2 {
		return 0, 0
	}
	k := floats.MaxIdx(s.Power[1:]) + 1
	return s.Freq[k], s.Power[k]
}
