// Package formula compiles formula text into an executable function plus the
// ordered list of cell addresses the formula reads.
//
// The pipeline has four stages:
//
//  1. Lexing, using the HCL native-syntax scanner.
//  2. Parsing into a small closed syntax tree: identifiers, number and string
//     literals, unary + and -, binary + - * /.
//  3. Reference extraction: every identifier, depth-first and left to right,
//     duplicates preserved.
//  4. Compilation into a closure over an argument list whose k-th element is
//     the value of the k-th referenced address.
//
// Compilation never evaluates the formula. Compiled formulas hold no
// per-cell state and may be shared, which is what Cache relies on.
package formula
