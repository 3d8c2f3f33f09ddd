// Package repository implements SurrealDB data access for packing lists and
// users.
//
// # Repository Pattern
//
//   - Constructor function (NewXxxRepository) accepts a database.Database
//   - GetByX methods return nil, nil when the record does not exist
//   - SurrealQL with $variables and type::record() for id handling
//   - Results are parsed field by field into model structs
//
// # Ownership
//
// PackList.user holds the owner's id and user.author_of holds the ids of the
// lists the user owns. AppendAuthorOf and RemoveAuthorOf keep the user side
// in sync; CreateOwned and DeleteOwned do the same inside one transaction.
//
// # Example Usage
//
//	repo := NewPackListRepository(db)
//	pl, err := repo.GetByID(ctx, "packlist:4f1c...")
//	if err != nil {
//	    return err
//	}
//	if pl == nil {
//	    // Handle not found
//	}
package repository
