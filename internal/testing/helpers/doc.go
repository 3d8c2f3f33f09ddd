// Package helpers provides test utilities for HTTP and repository tests.
//
// # JWT Helpers
//
// Mint bearer tokens signed with TestSecret:
//
//	jh := helpers.NewJWTHelper(t)
//	token := jh.GenerateToken(t, user)
//	expired := jh.GenerateExpiredToken(t, user)
//
// # Request Builder
//
//	rr := helpers.NewRequest(t, http.MethodPost, "/api/packList").
//	    WithAuth(jh, user).
//	    WithBody(fields).
//	    Do(router)
//
// # Assertion Helpers
//
//	helpers.AssertProblemDetails(t, rr, http.StatusUnauthorized, model.ErrCodeTokenExpired)
//	helpers.AssertRouteNotFound(t, rr)
//	helpers.AssertRecordNotExists(t, db, "packlist:abc")
package helpers
