// Package commands implements the ignitectl CLI front door: thin Cobra
// command bodies that parse flags and dispatch to internal/authority.Chain.
// No business logic lives here.
package commands
