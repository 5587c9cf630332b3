// Package changelog turns conventional commits into changelog records.
//
// This package implements:
//   - The record of a commit: ten named fields in a fixed order
//   - Encoding a record as JSON, YAML or TOML
//   - Batch encoding with bounded parallelism into one document
//   - A grouped terminal preview of the commits
//
// The field names and their order are a contract with the changelog templates
// that consume the records. Unset optional fields are written as null in JSON
// and YAML and left out in TOML, which has no null value.
package changelog
