// Package google provides shared infrastructure for the Google API
// connectors (Gmail, Calendar, Drive): service construction, token
// handling, rate limiting, and error classification.
package google
