// Package deco provides the core tissue-simulation engine for deco-sim.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - gas.go, state.go: gas mixes, the dive state, and the ambient pressure law
//   - compartment.go: the per-tissue loading state shared by every model
//   - kernel.go: the generic algorithms (Haldane step, ceiling search,
//     minimum-stop binary search, stop consolidation, time-to-surface)
//
// # Architecture
//
// One shared kernel (model.go) operates over a small kinetics interface; the
// six model variants live in their own files and hold only their own parameter
// tables and extra mutable fields:
//   - buhlmann.go: 16-compartment Haldanean model with gradient factors (ZHL-16C)
//   - vpm.go: bubble-mechanics model (critical radii, crushing pressure)
//   - rgbm.go: folded bubble/Haldanean model (per-compartment f-factors)
//   - hills.go: thermodynamic model (tissue temperature, Arrhenius kinetics)
//   - nmri98.go: 3-compartment linear-exponential model with oxygen tracking
//   - thalmann.go: 3-compartment linear-exponential model, gradient-factor shaped
//
// The kernel never reaches into variant-private fields; variants expose their
// compartments to it through the kinetics interface, and every hypothetical
// evaluation (stop search, minimum-stop probing) runs on value copies of the
// loading state so live compartments are never mutated by a query.
package deco
