package repository

import (
	"context"
	"errors"

	"github.com/forgo/packlist/internal/database"
	"github.com/forgo/packlist/internal/model"
)

const (
	createPackListQuery = `CREATE type::record($id) CONTENT $content`

	// UPDATE ... WHERE never creates a record for an unknown id.
	replacePackListQuery = `
		UPDATE packlist SET
			title = $title,
			date_leave = IF $date_leave IS NOT NULL THEN $date_leave ELSE NONE END,
			date_return = IF $date_return IS NOT NULL THEN $date_return ELSE NONE END,
			pack = $pack,
			timestamp = IF $timestamp IS NOT NULL THEN $timestamp ELSE NONE END
		WHERE id = type::record($id)
	`

	deletePackListQuery = `DELETE type::record($id)`

	linkOwnerQuery   = `UPDATE user SET author_of += $packlist_id WHERE id = type::record($user_id)`
	unlinkOwnerQuery = `UPDATE user SET author_of -= $packlist_id WHERE username = $username`
)

// PackListRepository handles packing list data access
type PackListRepository struct {
	db database.Database
}

// NewPackListRepository creates a new packing list repository
func NewPackListRepository(db database.Database) *PackListRepository {
	return &PackListRepository{db: db}
}

// Create stores a new packing list and assigns its id.
func (r *PackListRepository) Create(ctx context.Context, pl *model.PackList) error {
	pl.ID = newRecordID(packListTable)
	return r.db.Execute(ctx, createPackListQuery, map[string]interface{}{
		"id":      pl.ID,
		"content": packListContent(pl),
	})
}

// CreateOwned stores a new packing list and appends it to the owner's
// author_of in one transaction.
func (r *PackListRepository) CreateOwned(ctx context.Context, pl *model.PackList) error {
	pl.ID = newRecordID(packListTable)
	return database.NewAtomicBatch().
		Add(createPackListQuery, map[string]interface{}{
			"id":      pl.ID,
			"content": packListContent(pl),
		}).
		Add(linkOwnerQuery, map[string]interface{}{
			"packlist_id": pl.ID,
			"user_id":     pl.UserID,
		}).
		Execute(ctx, r.db)
}

// GetByID retrieves a packing list by ID. It returns nil, nil when no such
// packing list exists, including when id names another table.
func (r *PackListRepository) GetByID(ctx context.Context, id string) (*model.PackList, error) {
	if !inTable(id, packListTable) {
		return nil, nil
	}

	result, err := r.db.QueryOne(ctx, `SELECT * FROM type::record($id)`, map[string]interface{}{"id": id})
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
	return parsePackList(data), nil
}

// GetByIDs retrieves the packing lists named by ids, in the order given.
// Ids that no longer resolve are skipped.
func (r *PackListRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.PackList, error) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		if inTable(id, packListTable) {
			keys = append(keys, recordKey(id))
		}
	}
	if len(keys) == 0 {
		return []*model.PackList{}, nil
	}

	query := `SELECT * FROM packlist WHERE <string> record::id(id) IN $keys`
	results, err := r.db.Query(ctx, query, map[string]interface{}{"keys": keys})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*model.PackList)
	for _, data := range recordsFromResults(results) {
		pl := parsePackList(data)
		byID[pl.ID] = pl
	}

	lists := make([]*model.PackList, 0, len(byID))
	for _, id := range ids {
		if pl, ok := byID[id]; ok {
			lists = append(lists, pl)
		}
	}
	return lists, nil
}

// Replace overwrites the client-writable fields of a packing list. An
// unknown id matches nothing and is not an error.
func (r *PackListRepository) Replace(ctx context.Context, id string, f model.PackListFields) error {
	if !inTable(id, packListTable) {
		return nil
	}

	return r.db.Execute(ctx, replacePackListQuery, map[string]interface{}{
		"id":          id,
		"title":       f.Title,
		"date_leave":  dateVar(f.DateLeave),
		"date_return": dateVar(f.DateReturn),
		"pack":        packVar(f.Pack),
		"timestamp":   dateVar(f.Timestamp),
	})
}

// Delete deletes a packing list by ID
func (r *PackListRepository) Delete(ctx context.Context, id string) error {
	if !inTable(id, packListTable) {
		return nil
	}
	return r.db.Execute(ctx, deletePackListQuery, map[string]interface{}{"id": id})
}

// DeleteOwned removes id from the acting user's author_of and deletes the
// packing list in one transaction.
func (r *PackListRepository) DeleteOwned(ctx context.Context, id, username string) error {
	batch := database.NewAtomicBatch().
		Add(unlinkOwnerQuery, map[string]interface{}{
			"packlist_id": id,
			"username":    username,
		})
	if inTable(id, packListTable) {
		batch.Add(deletePackListQuery, map[string]interface{}{"id": id})
	}
	return batch.Execute(ctx, r.db)
}

func packListContent(pl *model.PackList) map[string]interface{} {
	content := map[string]interface{}{
		"title": pl.Title,
		"pack":  packVar(pl.Pack),
		"user":  pl.UserID,
	}
	if pl.DateLeave != nil {
		content["date_leave"] = pl.DateLeave.Time
	}
	if pl.DateReturn != nil {
		content["date_return"] = pl.DateReturn.Time
	}
	if pl.Timestamp != nil {
		content["timestamp"] = pl.Timestamp.Time
	}
	return content
}

func dateVar(d *model.Date) interface{} {
	if d == nil {
		return nil
	}
	return d.Time
}

func packVar(items []model.PackItem) []map[string]interface{} {
	pack := make([]map[string]interface{}, len(items))
	for i, item := range items {
		pack[i] = map[string]interface{}{
			"pack_item": item.PackItem,
			"complete":  item.Complete,
		}
	}
	return pack
}

func parsePackList(data map[string]interface{}) *model.PackList {
	pl := &model.PackList{
		ID:     convertSurrealID(data["id"]),
		Title:  getString(data, "title"),
		UserID: convertSurrealID(data["user"]),
		Pack:   []model.PackItem{},
	}

	if t := getTime(data, "date_leave"); t != nil {
		pl.DateLeave = model.NewDate(*t)
	}
	if t := getTime(data, "date_return"); t != nil {
		pl.DateReturn = model.NewDate(*t)
	}
	if t := getTime(data, "timestamp"); t != nil {
		pl.Timestamp = model.NewDate(*t)
	}

	if items, ok := data["pack"].([]interface{}); ok {
		for _, item := range items {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			pl.Pack = append(pl.Pack, model.PackItem{
				PackItem: getString(m, "pack_item"),
				Complete: getBool(m, "complete"),
			})
		}
	}

	return pl
}
