// Package service implements the business logic of the PackList API.
//
// Services take their repositories through a config struct and define the
// repository interfaces they need, so tests can run against the in-memory
// store in internal/testing/memstore.
//
//	lists := service.NewPackListService(service.PackListServiceConfig{
//	    PackListRepo: repository.NewPackListRepository(db),
//	    OwnerRepo:    repository.NewUserRepository(db),
//	})
//	view, err := lists.Create(ctx, caller, fields)
//
// # Ownership
//
// A packing list names its owner in its user field, and the owner lists it
// in author_of. By default the author_of link is written in the background
// after the list is stored, so a failed link leaves an orphan that is only
// logged. With AtomicOwnership both writes commit in one transaction.
// PackListService.Wait drains pending background links during shutdown.
//
// # Errors
//
// Sentinel errors live in errors.go. Validation failures from Register are
// wrapped in *FieldError so handlers can name the offending field.
package service
