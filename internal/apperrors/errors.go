package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates a concurrent mutation on the same resource is in
// flight. Safe to retry by re-reading and re-applying.
var ErrConflict = errors.New("concurrent modification conflict")

// ErrCycle indicates that a referral attachment would create a cycle
// (including self-reference) in the referral graph.
var ErrCycle = errors.New("referral cycle detected")

// ErrIntegrity indicates that the ledger chain invariant is violated: the
// latest completed transaction's balance snapshot does not match the
// materialized balance. Surfaced to the caller, never silently corrected.
var ErrIntegrity = errors.New("ledger integrity violation")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the authenticated admin lacks the required role.
var ErrForbidden = errors.New("forbidden")
