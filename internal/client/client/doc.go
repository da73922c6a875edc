// Package client contains the client-side building blocks of gophauth.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface):
//     Register, Login, RequestPasswordReset, ResetPassword, WhoAmI and Ping.
//  2. A gRPC implementation (see GRPCClient) that keeps the session token,
//     sends it as "authorization: Bearer <token>" through a unary
//     interceptor, and maps gRPC status codes to errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Failures the server explains to the user come back as *common.Error, so
// common.Message yields the server's text ("Invalid credentials", ...) and
// errors.Is matches the kind (ErrUnauthorized, common.ErrorConflict,
// common.ErrorBadRequest). Transport problems match ErrUnavailable.
package client
