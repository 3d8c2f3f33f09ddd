// Package fixtures provides test data factories backed by a live SurrealDB.
//
// Factories write records with plain SurrealQL so repository tests can read
// back data they did not write themselves:
//
//	tdb := testdb.New(t)
//	f := fixtures.New(tdb.DB)
//	alice := f.CreateUser(t, fixtures.WithUsername("alice"))
//	trip := f.CreateToronto(t, alice)
//	orphan := f.CreatePackList(t, alice, fixtures.Unlinked())
//
// Usernames and titles get random suffixes unless overridden. Every user's
// password is DefaultPassword.
package fixtures
