// Package domain defines the core business entities for TopicOS.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Topic: A user-defined unit of work aggregating records and tasks
//   - Record: A single communication/document normalised to a common shape
//   - Contact: A person extracted from or linked to records
//   - ProgressEvent: One step of a streamed batch pipeline run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
