// Package wire owns the run-file wire contract and decoding primitives.
//
// Ownership boundary:
// - magic preamble validation
// - primitive decoders (integer, string, pair, array)
// - decode failure wrapping
package wire
