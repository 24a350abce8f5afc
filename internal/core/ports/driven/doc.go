// Package driven defines the driven ports (secondary ports) of the
// hexagonal architecture. These are interfaces that the core defines
// and adapters implement, representing external dependencies the
// application needs.
//
// Required ports (the application cannot function without them):
//   - CompletionService: LLM completion backend
//   - Schema, SchemaCompiler: structured-output validation
//   - TopicStore, RecordStore, ContactStore: persistence
//   - ConfigStore: settings persistence
//
// Optional ports (the application degrades gracefully without them):
//   - SourceConnector: external content sources
//
// Import rules: this package may import only the domain package and
// the standard library. Adapters import this package; never the
// reverse.
package driven
