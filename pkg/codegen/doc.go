// Package codegen turns a form definition into stable text artefacts.
//
// Generators are registered by format name in a Registry. The default
// registry carries:
//
//   - json: the portable definition document
//   - yaml: the same document as block YAML
//   - schema: typed-schema source with imports, a data-shape interface,
//     field constructors, cross-field validators and a factory function
//   - openapi: an OpenAPI 3 object schema for the submitted values
//
// Every generator is deterministic: the same definition always produces the
// same bytes.
package codegen
