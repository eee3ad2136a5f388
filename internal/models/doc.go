// Package models defines the core domain models for Trip Splitter.
//
// # Models
//
//   - Person: a member of a trip, identified by a ledger-scoped PersonID
//   - Expense: one itemized cost with per-person payments and consumption shares
//   - Share: a single (person, amount) pair on either side of an expense
//   - LedgerState: serializable snapshot of one trip's ledger
//   - Trip: a named ledger owned by a user account
//   - User: registered user account
//
// # Design Principles
//
//  1. **IDs, not names**: expenses reference people by PersonID; display names
//     are resolved only at the API and CLI boundary, so a departed or renamed
//     person never breaks an expense.
//  2. **Exact money**: every amount is a decimal.Decimal in one implicit unit.
//  3. **Plain data**: models carry no behaviour beyond small helpers; the
//     ledger package owns all invariants.
package models
