package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/forgo/packlist/internal/database"
	"github.com/forgo/packlist/internal/model"
	"github.com/google/uuid"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the plain-text password of every fixture user.
const DefaultPassword = "correct-horse-battery"

// Factory creates test records directly in the database, bypassing the
// repositories under test.
type Factory struct {
	db database.Database
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{db: db}
}

// randomSuffix generates a short random hex string
func randomSuffix() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func recordID(table string) string {
	return table + ":" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (f *Factory) exec(t *testing.T, query string, vars map[string]interface{}) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := f.db.Execute(ctx, query, vars); err != nil {
		t.Fatalf("fixtures: %v\nQuery: %s", err, query)
	}
}

// ============================================================================
// User Fixtures
// ============================================================================

// UserOpts customizes user creation
type UserOpts struct {
	Username string
	Email    string
	Password string
	AuthorOf []string
}

// WithUsername sets the fixture user's username
func WithUsername(username string) func(*UserOpts) {
	return func(o *UserOpts) { o.Username = username }
}

// WithEmail sets the fixture user's email
func WithEmail(email string) func(*UserOpts) {
	return func(o *UserOpts) { o.Email = email }
}

// WithAuthorOf seeds the user's author_of list, dangling ids included
func WithAuthorOf(ids ...string) func(*UserOpts) {
	return func(o *UserOpts) { o.AuthorOf = ids }
}

// CreateUser creates a user with optional customizations
func (f *Factory) CreateUser(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()

	suffix := randomSuffix()
	o := &UserOpts{
		Username: "user_" + suffix,
		Email:    fmt.Sprintf("user_%s@test.local", suffix),
		Password: DefaultPassword,
		AuthorOf: []string{},
	}
	for _, fn := range opts {
		fn(o)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}

	user := &model.User{
		ID:        recordID("user"),
		Username:  o.Username,
		Email:     o.Email,
		Hash:      string(hash),
		AuthorOf:  o.AuthorOf,
		CreatedOn: time.Now().UTC(),
	}

	f.exec(t, `
		CREATE type::record($id) CONTENT {
			username: $username,
			email: $email,
			hash: $hash,
			author_of: $author_of,
			created_on: time::now()
		}
	`, map[string]interface{}{
		"id":        user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"hash":      user.Hash,
		"author_of": user.AuthorOf,
	})
	return user
}

// ============================================================================
// Packing List Fixtures
// ============================================================================

// PackListOpts customizes packing list creation
type PackListOpts struct {
	Title      string
	DateLeave  *model.Date
	DateReturn *model.Date
	Pack       []model.PackItem
	// Unlinked skips appending the list to the owner's author_of
	Unlinked bool
}

// WithTitle sets the fixture list's title
func WithTitle(title string) func(*PackListOpts) {
	return func(o *PackListOpts) { o.Title = title }
}

// WithDates sets the leave and return dates
func WithDates(leave, ret string) func(*PackListOpts) {
	return func(o *PackListOpts) {
		o.DateLeave = model.MustParseDate(leave)
		o.DateReturn = model.MustParseDate(ret)
	}
}

// WithItems sets the pack to the given item names, all incomplete
func WithItems(names ...string) func(*PackListOpts) {
	return func(o *PackListOpts) {
		o.Pack = make([]model.PackItem, len(names))
		for i, name := range names {
			o.Pack[i] = model.PackItem{PackItem: name}
		}
	}
}

// Unlinked leaves the owner's author_of untouched
func Unlinked() func(*PackListOpts) {
	return func(o *PackListOpts) { o.Unlinked = true }
}

// CreatePackList creates a packing list owned by owner and, unless Unlinked
// is given, appends it to the owner's author_of.
func (f *Factory) CreatePackList(t *testing.T, owner *model.User, opts ...func(*PackListOpts)) *model.PackList {
	t.Helper()

	o := &PackListOpts{
		Title: "Trip " + randomSuffix(),
		Pack:  []model.PackItem{},
	}
	for _, fn := range opts {
		fn(o)
	}

	pl := &model.PackList{
		ID:         recordID("packlist"),
		Title:      o.Title,
		DateLeave:  o.DateLeave,
		DateReturn: o.DateReturn,
		Pack:       o.Pack,
		Timestamp:  model.NewDate(time.Now()),
		UserID:     owner.ID,
	}

	pack := make([]map[string]interface{}, len(pl.Pack))
	for i, item := range pl.Pack {
		pack[i] = map[string]interface{}{"pack_item": item.PackItem, "complete": item.Complete}
	}
	content := map[string]interface{}{
		"title":     pl.Title,
		"pack":      pack,
		"user":      pl.UserID,
		"timestamp": pl.Timestamp.Time,
	}
	if pl.DateLeave != nil {
		content["date_leave"] = pl.DateLeave.Time
	}
	if pl.DateReturn != nil {
		content["date_return"] = pl.DateReturn.Time
	}

	f.exec(t, `CREATE type::record($id) CONTENT $content`, map[string]interface{}{
		"id":      pl.ID,
		"content": content,
	})

	if !o.Unlinked {
		f.exec(t, `UPDATE type::record($user) SET author_of += $id`, map[string]interface{}{
			"user": owner.ID,
			"id":   pl.ID,
		})
		owner.AuthorOf = append(owner.AuthorOf, pl.ID)
	}
	return pl
}

// CreateToronto creates the reference trip: two weeks in Toronto with a
// wallet, a jacket and a passport, in that order.
func (f *Factory) CreateToronto(t *testing.T, owner *model.User) *model.PackList {
	t.Helper()
	return f.CreatePackList(t, owner,
		WithTitle("Toronto"),
		WithDates("08/02/2019", "08/16/2019"),
		WithItems("Wallet", "Jacket", "Passport"),
	)
}
