// Package registry implements the named factory registry shared by the AI
// controller and movement generator subsystems.
//
// A Registry is populated once during startup, frozen, and then handed by
// reference to whatever needs to resolve keys. There is no removal API.
// Enumeration order is the insertion order, which makes any scan over All
// (for example permit scoring with a first-wins tie-break) reproducible.
//
// Registration-time checks are expressed as validators:
//
//	reg := registry.New[ai.Factory]("ai", registry.WithValidator(requireSelectable))
//
// This package has no dependencies outside the standard library.
package registry
