// Package mpassid implements the MPASSid verification service inside Agora.
//
// Layering:
// - domain: assertion attributes, metadata collection, authorization rules, errors
// - application: commands/queries/workers using explicit ports
// - ports: stable boundaries for persistence and event publishing
// - adapters: concrete HTTP, memory, postgres, SAML, and registry implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Keep this module self-contained under identity-access context.
// - Do not import other context adapters into domain/application.
// - SAML response validation happens upstream; this module starts from a
//   validated assertion's attribute statements.
package mpassid
