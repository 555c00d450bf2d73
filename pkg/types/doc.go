// Package types defines the Repository interface, entity types, the export
// document, and standard errors for the route timer.
package types
