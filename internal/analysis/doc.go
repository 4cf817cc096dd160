// Package analysis provides post-run tools for recorded trajectories.
//
//   - [PowerSpectrum]: magnitude spectrum of a sampled signal
//   - [DominantFrequency]: strongest non-zero frequency of a signal
//   - [LyapunovExponent]: largest exponent via trajectory separation
//   - [NewPhasePortrait]: 2D phase space plot of two recorded columns
//   - [NewPoincareSection]: points where one column crosses a threshold
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda, err := analysis.LyapunovExponent(ctx, build, dt, duration, 1e-8)
//	if err == nil && lambda > 0 {
//	    // System is chaotic
//	}
package analysis
