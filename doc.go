// Package unival validates, counts, detects and transcodes Unicode text held
// in UTF-8, UTF-16 and UTF-32 buffers.
//
// Every operation is a pure function of its input and options. Validators
// come in pairs: a Valid* predicate and a Validate* form that reports the
// position of the first unit that cannot belong to a valid sequence as an
// *Error. Nothing is retained after a call returns and nothing is logged.
//
// Counting functions assume their input is already valid. Run the matching
// validator first when the input is untrusted.
//
// Base64 lives in the base64 subpackage and shares this package's error model.
package unival

// Version identifies the library build for diagnostics. It carries no
// behavioral contract.
const Version = "0.4.0"
