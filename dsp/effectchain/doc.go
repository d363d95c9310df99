// Package effectchain runs the fixed, ordered effect pipeline applied to a
// rendered buffer.
//
// Stages are built from a [Registry] of named factories and executed in a
// fixed order (see [DefaultOrder]): noise injection, distortion, bit-crush,
// wave-fold, low-pass, chorus. Each stage decides from the parameter set
// whether it is active; inactive stages leave the buffer untouched. The order
// is not user-wireable.
package effectchain
