// Package memstore is an in-memory stand-in for the SurrealDB repositories,
// used by service and HTTP tests that should not need a database.
//
//	store := memstore.New()
//	svc := service.NewPackListService(service.PackListServiceConfig{
//	    PackListRepo: store.PackLists(),
//	    OwnerRepo:    store.Users(),
//	})
//
// Any operation can be made to fail with Store.Fail.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/forgo/packlist/internal/database"
	"github.com/forgo/packlist/internal/model"
	"github.com/google/uuid"
)

// Operation names accepted by Store.Fail.
const (
	OpCreatePackList  = "packlist.create"
	OpGetPackList     = "packlist.get"
	OpGetPackLists    = "packlist.get_many"
	OpReplacePackList = "packlist.replace"
	OpDeletePackList  = "packlist.delete"
	OpCreateUser      = "user.create"
	OpGetUser         = "user.get"
	OpAppendAuthorOf  = "user.append_author_of"
	OpRemoveAuthorOf  = "user.remove_author_of"
	OpPing            = "ping"
)

// Store holds packing lists and users in memory.
type Store struct {
	mu       sync.Mutex
	lists    map[string]*model.PackList
	users    map[string]*model.User
	failures map[string]error
}

// New creates an empty store
func New() *Store {
	return &Store{
		lists:    make(map[string]*model.PackList),
		users:    make(map[string]*model.User),
		failures: make(map[string]error),
	}
}

// Fail makes every later call of op return err. A nil err clears it.
func (s *Store) Fail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// Ping reports the injected OpPing failure, if any.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures[OpPing]
}

// PackLists returns the packing list repository view of the store.
func (s *Store) PackLists() *PackListStore { return &PackListStore{s: s} }

// Users returns the user repository view of the store.
func (s *Store) Users() *UserStore { return &UserStore{s: s} }

// PackList returns a copy of the stored packing list, or nil.
func (s *Store) PackList(id string) *model.PackList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clonePackList(s.lists[id])
}

// User returns a copy of the stored user with the given username, or nil.
func (s *Store) User(username string) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneUser(s.userByName(username))
}

// PutPackList stores pl as is, assigning an id when it has none. It is
// used to seed dangling or foreign-owned lists.
func (s *Store) PutPackList(pl *model.PackList) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pl.ID == "" {
		pl.ID = newID("packlist")
	}
	s.lists[pl.ID] = clonePackList(pl)
}

func (s *Store) fail(op string) error {
	return s.failures[op]
}

func (s *Store) userByName(username string) *model.User {
	for _, u := range s.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

// ============================================================================
// Packing lists
// ============================================================================

// PackListStore implements service.PackListRepository.
type PackListStore struct {
	s *Store
}

func (r *PackListStore) Create(ctx context.Context, pl *model.PackList) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(OpCreatePackList); err != nil {
		return err
	}
	pl.ID = newID("packlist")
	r.s.lists[pl.ID] = clonePackList(pl)
	return nil
}

func (r *PackListStore) CreateOwned(ctx context.Context, pl *model.PackList) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(OpCreatePackList); err != nil {
		return err
	}
	if err := r.s.fail(OpAppendAuthorOf); err != nil {
		return err
	}
	pl.ID = newID("packlist")
	r.s.lists[pl.ID] = clonePackList(pl)
	if u, ok := r.s.users[pl.UserID]; ok {
		u.AuthorOf = append(u.AuthorOf, pl.ID)
	}
	return nil
}

func (r *PackListStore) GetByID(ctx context.Context, id string) (*model.PackList, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(OpGetPackList); err != nil {
		return nil, err
	}
	return clonePackList(r.s.lists[id]), nil
}

func (r *PackListStore) GetByIDs(ctx context.Context, ids []string) ([]*model.PackList, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(OpGetPackLists); err != nil {
		return nil, err
	}
	lists := make([]*model.PackList, 0, len(ids))
	for _, id := range ids {
		if pl, ok := r.s.lists[id]; ok {
			lists = append(lists, clonePackList(pl))
		}
	}
	return lists, nil
}

func (r *PackListStore) Replace(ctx context.Context, id string, f model.PackListFields) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(OpReplacePackList); err != nil {
		return err
	}
	if pl, ok := r.s.lists[id]; ok {
		f.Pack = slices.Clone(f.Pack)
		pl.Replace(f)
	}
	return nil
}

func (r *PackListStore) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(OpDeletePackList); err != nil {
		return err
	}
	delete(r.s.lists, id)
	return nil
}

func (r *PackListStore) DeleteOwned(ctx context.Context, id, username string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(OpRemoveAuthorOf); err != nil {
		return err
	}
	if err := r.s.fail(OpDeletePackList); err != nil {
		return err
	}
	if u := r.s.userByName(username); u != nil {
		u.AuthorOf = removeAll(u.AuthorOf, id)
	}
	delete(r.s.lists, id)
	return nil
}

// ============================================================================
// Users
// ============================================================================

// UserStore implements service.UserRepository and service.OwnerRepository.
type UserStore struct {
	s *Store
}

func (r *UserStore) Create(ctx context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(OpCreateUser); err != nil {
		return err
	}
	if r.s.userByName(user.Username) != nil {
		return fmt.Errorf("%w: username already exists", database.ErrDuplicate)
	}
	user.ID = newID("user")
	user.AuthorOf = []string{}
	user.CreatedOn = time.Now().UTC()
	r.s.users[user.ID] = cloneUser(user)
	return nil
}

func (r *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(OpGetUser); err != nil {
		return nil, err
	}
	return cloneUser(r.s.users[id]), nil
}

func (r *UserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(OpGetUser); err != nil {
		return nil, err
	}
	return cloneUser(r.s.userByName(username)), nil
}

func (r *UserStore) AppendAuthorOf(ctx context.Context, userID, packListID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(OpAppendAuthorOf); err != nil {
		return err
	}
	if u, ok := r.s.users[userID]; ok {
		u.AuthorOf = append(u.AuthorOf, packListID)
	}
	return nil
}

func (r *UserStore) RemoveAuthorOf(ctx context.Context, username, packListID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(OpRemoveAuthorOf); err != nil {
		return err
	}
	if u := r.s.userByName(username); u != nil {
		u.AuthorOf = removeAll(u.AuthorOf, packListID)
	}
	return nil
}

func newID(table string) string {
	return table + ":" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func removeAll(ids []string, id string) []string {
	return slices.DeleteFunc(slices.Clone(ids), func(v string) bool { return v == id })
}

func clonePackList(pl *model.PackList) *model.PackList {
	if pl == nil {
		return nil
	}
	c := *pl
	c.Pack = slices.Clone(pl.Pack)
	if c.Pack == nil {
		c.Pack = []model.PackItem{}
	}
	return &c
}

func cloneUser(u *model.User) *model.User {
	if u == nil {
		return nil
	}
	c := *u
	c.AuthorOf = slices.Clone(u.AuthorOf)
	if c.AuthorOf == nil {
		c.AuthorOf = []string{}
	}
	return &c
}
