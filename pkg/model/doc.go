// Package model defines the editable form definition shared by the store,
// the history and clipboard managers, the condition evaluator and the code
// generators. Every aggregate exposes a Clone method; the store hands out
// clones only, so callers never alias the live definition.
//
// Field configuration is a single typed struct (Config) holding every
// recognised key plus an Extra map for keys a field type does not know
// about. The per-type catalogue (LookupType) records which keys a type
// recognises and which class and primitive the typed-schema generator maps
// it to.
package model
