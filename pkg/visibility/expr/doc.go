// Package expr is a small, dependency-free expression interpreter used for
// calculated-field formulas and custom cross-field validators.
//
// Supported syntax:
//   - literals: numbers, 'single' or "double" quoted strings, true, false, null
//   - references: `total`, `values.total`, `extras.role` (dot-path traversal)
//   - arithmetic: `+ - * / %` and unary `-` (`+` concatenates when either side is a string)
//   - comparisons: `== != === !== < <= > >=`
//   - boolean composition: `&& || !` and parentheses
//
// Programs have no access to ambient scope: there are no function calls,
// assignments or property access beyond the value maps in the context.
package expr
