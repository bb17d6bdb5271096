// Package core defines the shared language of the d2rq mapping pipeline.
//
// This package contains:
//   - Identity types (Resource)
//   - Relational references (Attribute, AliasMap)
//   - Column classification (ColumnType)
//   - The classified error taxonomy (Kind, Error)
//
// The Golden Rule: pkg/core imports only stdlib and leaf utility modules.
// All other packages depend on core, not the reverse.
package core
