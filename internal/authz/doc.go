// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

// Package authz provides role-based authorization using Casbin.
//
// # Architecture
//
//	Request -> auth.Authenticate -> authz.Authorize -> Handler
//
// The subject is the role carried in the JWT (user or admin), the object is
// the request path and the action is derived from the HTTP method:
//
//	GET, HEAD, OPTIONS  read
//	POST, PUT, PATCH    write
//	DELETE              delete
//
// # RBAC Model
//
//	[matchers]
//	m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && r.act == p.act
//
// admin inherits every user permission (g, admin, user) and additionally
// owns the catalog sync endpoints. The model and policy are embedded;
// security.casbin_model_path and security.casbin_policy_path override them.
//
// Decisions are cached per (role, path, action) for a few minutes.
// Ownership rules such as "only the author may edit an article" are not
// expressed here; handlers enforce them after authorization passes.
package authz
