// Package services implements the application's business logic.
// Services depend only on domain types and ports; adapters are wired
// in at composition time.
package services
