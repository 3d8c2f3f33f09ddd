package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/forgo/packlist/internal/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultLinkTimeout = 10 * time.Second

// PackListRepository defines the interface for packing list storage
type PackListRepository interface {
	Create(ctx context.Context, pl *model.PackList) error
	CreateOwned(ctx context.Context, pl *model.PackList) error
	GetByID(ctx context.Context, id string) (*model.PackList, error)
	GetByIDs(ctx context.Context, ids []string) ([]*model.PackList, error)
	Replace(ctx context.Context, id string, f model.PackListFields) error
	Delete(ctx context.Context, id string) error
	DeleteOwned(ctx context.Context, id, username string) error
}

// OwnerRepository defines the user operations packing lists need
type OwnerRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	AppendAuthorOf(ctx context.Context, userID, packListID string) error
	RemoveAuthorOf(ctx context.Context, username, packListID string) error
}

// Principal is the authenticated caller of an operation.
type Principal struct {
	UserID   string
	Username string
	Email    string
}

// PackListService handles packing list operations
type PackListService struct {
	lists       PackListRepository
	owners      OwnerRepository
	atomic      bool
	linkTimeout time.Duration
	now         func() time.Time
	tracer      trace.Tracer
	links       sync.WaitGroup
}

// PackListServiceConfig holds configuration for the packing list service
type PackListServiceConfig struct {
	PackListRepo PackListRepository
	OwnerRepo    OwnerRepository

	// AtomicOwnership persists a list and its owner link in one transaction.
	// When false the link is written in the background after the list is
	// stored.
	AtomicOwnership bool
	LinkTimeout     time.Duration // Default: 10s
	Clock           func() time.Time
}

// NewPackListService creates a new packing list service
func NewPackListService(cfg PackListServiceConfig) *PackListService {
	if cfg.LinkTimeout <= 0 {
		cfg.LinkTimeout = defaultLinkTimeout
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	return &PackListService{
		lists:       cfg.PackListRepo,
		owners:      cfg.OwnerRepo,
		atomic:      cfg.AtomicOwnership,
		linkTimeout: cfg.LinkTimeout,
		now:         cfg.Clock,
		tracer:      otel.Tracer("github.com/forgo/packlist/internal/service"),
	}
}

// Create stores a new packing list owned by the caller and returns it with
// the owner resolved.
func (s *PackListService) Create(ctx context.Context, caller Principal, f model.PackListFields) (*model.PackListView, error) {
	ctx, span := s.tracer.Start(ctx, "PackListService.Create",
		trace.WithAttributes(attribute.String("packlist.owner", caller.Username)))
	defer span.End()

	pl := model.NewPackList(caller.UserID, f, s.now())

	if s.atomic {
		if err := s.lists.CreateOwned(ctx, pl); err != nil {
			return nil, recordErr(span, err)
		}
		return pl.Serialize(s.createdOwner(ctx, pl)), nil
	}

	if err := s.lists.Create(ctx, pl); err != nil {
		return nil, recordErr(span, err)
	}
	span.SetAttributes(attribute.String("packlist.id", pl.ID))

	// Owner is read before the link so the response does not depend on how
	// far the background write has got.
	owner := s.createdOwner(ctx, pl)
	s.linkOwner(ctx, pl.UserID, pl.ID)
	return pl.Serialize(owner), nil
}

// createdOwner resolves the owner of a list that is already stored. The
// list exists either way, so a failed lookup renders a null user instead of
// failing the create.
func (s *PackListService) createdOwner(ctx context.Context, pl *model.PackList) *model.User {
	owner, err := s.owners.GetByID(ctx, pl.UserID)
	if err != nil {
		slog.Warn("failed to resolve owner of created packing list",
			"packlist_id", pl.ID,
			"user_id", pl.UserID,
			"error", err,
		)
		return nil
	}
	return owner
}

// linkOwner appends packListID to the owner's author_of in the background.
// The write outlives the request context; failures are logged.
func (s *PackListService) linkOwner(ctx context.Context, userID, packListID string) {
	s.links.Add(1)
	go func() {
		defer s.links.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.linkTimeout)
		defer cancel()

		if err := s.owners.AppendAuthorOf(ctx, userID, packListID); err != nil {
			slog.Error("failed to link packing list to owner",
				"packlist_id", packListID,
				"user_id", userID,
				"error", err,
			)
		}
	}()
}

// Wait blocks until background owner links finish or ctx is done.
func (s *PackListService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.links.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get retrieves a packing list by ID
func (s *PackListService) Get(ctx context.Context, id string) (*model.PackListView, error) {
	ctx, span := s.tracer.Start(ctx, "PackListService.Get",
		trace.WithAttributes(attribute.String("packlist.id", id)))
	defer span.End()

	pl, err := s.lists.GetByID(ctx, id)
	if err != nil {
		return nil, recordErr(span, err)
	}
	if pl == nil {
		return nil, ErrPackListNotFound
	}

	owner, err := s.resolveOwner(ctx, pl.UserID)
	if err != nil {
		return nil, recordErr(span, err)
	}
	return pl.Serialize(owner), nil
}

// ListByOwner returns the packing lists in the named user's author_of, in
// that order. An unknown username yields an empty list.
func (s *PackListService) ListByOwner(ctx context.Context, username string) ([]*model.PackListView, error) {
	ctx, span := s.tracer.Start(ctx, "PackListService.ListByOwner",
		trace.WithAttributes(attribute.String("packlist.owner", username)))
	defer span.End()

	user, err := s.owners.GetByUsername(ctx, username)
	if err != nil {
		return nil, recordErr(span, err)
	}
	if user == nil || len(user.AuthorOf) == 0 {
		return []*model.PackListView{}, nil
	}

	lists, err := s.lists.GetByIDs(ctx, user.AuthorOf)
	if err != nil {
		return nil, recordErr(span, err)
	}

	owners := map[string]*model.User{user.ID: user}
	views := make([]*model.PackListView, 0, len(lists))
	for _, pl := range lists {
		owner, ok := owners[pl.UserID]
		if !ok {
			owner, err = s.resolveOwner(ctx, pl.UserID)
			if err != nil {
				return nil, recordErr(span, err)
			}
			owners[pl.UserID] = owner
		}
		views = append(views, pl.Serialize(owner))
	}
	span.SetAttributes(attribute.Int("packlist.count", len(views)))
	return views, nil
}

// Update replaces the client-writable fields of a packing list and returns
// the fields as stored. An unknown id is not an error.
func (s *PackListService) Update(ctx context.Context, id string, f model.PackListFields) (model.PackListFields, error) {
	ctx, span := s.tracer.Start(ctx, "PackListService.Update",
		trace.WithAttributes(attribute.String("packlist.id", id)))
	defer span.End()

	f = f.Normalize()
	if err := s.lists.Replace(ctx, id, f); err != nil {
		return model.PackListFields{}, recordErr(span, err)
	}
	return f, nil
}

// Delete removes id from the caller's author_of and then deletes the
// packing list. When the unlink fails the list is left in place.
func (s *PackListService) Delete(ctx context.Context, caller Principal, id string) error {
	ctx, span := s.tracer.Start(ctx, "PackListService.Delete",
		trace.WithAttributes(attribute.String("packlist.id", id)))
	defer span.End()

	if s.atomic {
		return recordErr(span, s.lists.DeleteOwned(ctx, id, caller.Username))
	}

	if err := s.owners.RemoveAuthorOf(ctx, caller.Username, id); err != nil {
		return recordErr(span, err)
	}
	return recordErr(span, s.lists.Delete(ctx, id))
}

// resolveOwner loads the user a packing list points at. A dangling or empty
// reference resolves to nil.
func (s *PackListService) resolveOwner(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, nil
	}
	return s.owners.GetByID(ctx, userID)
}

func recordErr(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
