// Package projectadminservice implements the fund administration ledger
// inside the fund-administration context.
//
// Layering:
// - domain: core entities, role/expenditure vocabularies, sentinel errors
// - application: the dispatch surface plus the outbox relay worker
// - ports: stable boundaries for persistence, authority, clock, and signals
// - adapters: concrete HTTP, memory, postgres, and event publisher implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Keep this module self-contained under the fund-administration context.
// - Role checks go through the identity-access rbac-service authority port;
//   this module never stores role grants itself, only membership indexes.
// - Do not import other context adapters into domain/application.
package projectadminservice
