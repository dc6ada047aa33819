// Package aisafety scrapes a fixed set of AI-safety publishers and
// normalizes their heterogeneous HTML into structured JSON records.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, fs/, yaml/).
package aisafety
