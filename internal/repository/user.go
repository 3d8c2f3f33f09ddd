package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/forgo/packlist/internal/database"
	"github.com/forgo/packlist/internal/model"
)

// UserRepository handles user data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user with an empty author_of list
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		CREATE type::record($id) CONTENT {
			username: $username,
			email: IF $email != "" THEN $email ELSE NONE END,
			hash: $hash,
			author_of: [],
			created_on: time::now()
		}
	`

	id := newRecordID(userTable)
	vars := map[string]interface{}{
		"id":       id,
		"username": user.Username,
		"email":    user.Email,
		"hash":     user.Hash,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return fmt.Errorf("%w: username already exists", database.ErrDuplicate)
		}
		return err
	}

	user.ID = id
	user.AuthorOf = []string{}
	user.CreatedOn = time.Now().UTC()
	if records := recordsFromResults(result); len(records) > 0 {
		if t := getTime(records[0], "created_on"); t != nil {
			user.CreatedOn = *t
		}
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	if !inTable(id, userTable) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT * FROM type::record($id)`, map[string]interface{}{"id": id})
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT * FROM user WHERE username = $username LIMIT 1`
	return r.getOne(ctx, query, map[string]interface{}{"username": username})
}

// AppendAuthorOf adds packListID to the end of the user's author_of list.
// The append happens server-side so concurrent links do not overwrite each
// other.
func (r *UserRepository) AppendAuthorOf(ctx context.Context, userID, packListID string) error {
	return r.db.Execute(ctx, linkOwnerQuery, map[string]interface{}{
		"packlist_id": packListID,
		"user_id":     userID,
	})
}

// RemoveAuthorOf removes packListID from the author_of list of the user
// with the given username.
func (r *UserRepository) RemoveAuthorOf(ctx context.Context, username, packListID string) error {
	return r.db.Execute(ctx, unlinkOwnerQuery, map[string]interface{}{
		"packlist_id": packListID,
		"username":    username,
	})
}

func (r *UserRepository) getOne(ctx context.Context, query string, vars map[string]interface{}) (*model.User, error) {
	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, err := asRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseUser(data), nil
}

func parseUser(data map[string]interface{}) *model.User {
	user := &model.User{
		ID:       convertSurrealID(data["id"]),
		Username: getString(data, "username"),
		Email:    getString(data, "email"),
		Hash:     getString(data, "hash"),
		AuthorOf: getStringSlice(data, "author_of"),
	}
	if t := getTime(data, "created_on"); t != nil {
		user.CreatedOn = *t
	}
	return user
}
