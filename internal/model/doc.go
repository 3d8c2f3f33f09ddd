// Package model defines the domain entities and wire shapes of the PackList API.
//
// # Domain Entities
//
//   - PackList: a packing list with a title, travel dates, an ordered list of
//     PackItem entries, a timestamp and the id of its owning User
//   - User: an account; AuthorOf is the back-reference to owned PackLists
//
// Stored entities are rendered through Serialize, which produces the view
// types (PackListView, UserView). A PackListView always carries the resolved
// owner rather than its id.
//
// # Dates
//
// Date accepts RFC 3339, YYYY-MM-DD and MM/DD/YYYY on input and always
// emits RFC 3339 UTC with millisecond precision:
//
//	var f PackListFields
//	_ = json.Unmarshal([]byte(`{"date_leave":"08/02/2019"}`), &f)
//	// f.DateLeave renders as "2019-08-02T00:00:00.000Z"
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go. Server faults
// always carry GenericFailureDetail so that nothing about the cause leaks.
package model
