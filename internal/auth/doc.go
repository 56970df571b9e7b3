// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

/*
Package auth provides account authentication for the Finpick API.

Key Components:

  - JWTManager: HS256 token issue and validation. Every token carries a
    random jti so it can be revoked individually.
  - RevocationStore: BadgerDB-backed set of revoked jti values. Entries
    expire with the token they revoke. An empty path runs Badger in memory.
  - Service: signup, login, logout, profile and admin seeding on top of the
    users table. Passwords are hashed with bcrypt.
  - Middleware: Bearer token extraction for chi routes. Claims are placed in
    the request context and read back with ClaimsFromContext.

Usage Example:

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
	    return err
	}
	revoked, err := auth.OpenRevocationStore(cfg.Security.RevocationStorePath)
	if err != nil {
	    return err
	}
	defer revoked.Close()

	accounts := auth.NewService(db, jwtManager, revoked, cfg.Security.BcryptCost)
	mw := auth.NewMiddleware(jwtManager, revoked)

	r.With(mw.Authenticate).Get("/api/v1/accounts/profile", h.Profile)

Error Handling:

Login failures for an unknown user and a wrong password both return
ErrInvalidCredentials, and both pay the bcrypt cost, so the response does not
reveal which usernames exist.

Thread Safety:

JWTManager, RevocationStore, Service and Middleware are safe for concurrent use.
*/
package auth
