// Package diag carries diagnostics produced by the analysis passes.
//
// Passes report through the Reporter interface; the driver collects into a
// Bag owned by the per-compilation context. Every diagnostic in the analysis
// taxonomy is non-fatal: a pass records it and keeps going.
package diag
