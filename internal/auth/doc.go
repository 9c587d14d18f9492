// Package auth provides authentication and authorization for the admin API.
//
// Admin accounts live in the users table and log in with email and password,
// verified against an Argon2id hash. A successful login yields an HS256 access
// token whose subject is the user id, carrying the role code and a unique token id.
// Logout stores the token id in the revoked-token store until the token expires.
//
// # Authorization
//
// Every user holds one role and every role a set of permissions. Permission codes
// follow the module.type format, for example menus.read or roles.delete. An inactive
// user, role or permission grants nothing.
//
// # Middleware
//
//   - RequireAuth: accept only valid, unrevoked bearer tokens
//   - RequirePermission: require a permission code of the authenticated user
//
// Example usage:
//
//	authService := auth.NewService(db)
//
//	api.Get("/menus",
//	    auth.RequireAuth(tokens, revoked),
//	    auth.RequirePermission(authService, auth.PermMenusRead),
//	    handler,
//	)
package auth
