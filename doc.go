// Package wireschema validates and converts API wire payloads.
//
// It provides:
//
// - Bidirectional schemas (Schema[T]) that parse raw JSON trees into typed values and serialize them back
// - A stable error model via Issues (JSON Pointer over wire names, code, message)
// - Token-level enforcement of duplicate keys, nesting depth and input size via Source drivers
// - JSON Schema export for every schema
//
// Schemas are built with the combinators in package dsl; the API types live in
// package types and are looked up by name through package registry.
//
// Typical usage:
//
//	v, err := wireschema.ParseJSON(ctx, types.JsonListStringSchema(), data)
//	raw, err := wireschema.Serialize(ctx, types.JsonListStringSchema(), v)
//
// Per-call options travel in the context (WithParseOpt, WithSerializeOpt) or
// are passed explicitly; an explicit option wins.
package wireschema
