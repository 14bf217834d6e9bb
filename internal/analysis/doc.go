// Package analysis inspects recorded runs.
//
//   - [Series]: one named column of a run as a slice
//   - [NewSpectrum]: single-sided amplitude spectrum of a series
//   - [Spectrum.THD]: total harmonic distortion against the strongest bin
//   - [NewLocus]: the alpha/beta trajectory of the voltage vector
//
// Spectra of phase voltages are only meaningful when the run spans a whole
// number of electrical revolutions; otherwise energy leaks into neighbouring
// bins and THD is overstated.
package analysis
