// Package core holds engine-wide configuration and small numeric helpers
// shared by the DSP and instrument packages.
package core
