package model

import "time"

// PackItem is one entry of a packing list.
type PackItem struct {
	PackItem string `json:"pack_item"`
	Complete bool   `json:"complete"`
}

// PackListFields are the client-writable fields of a PackList. It is the body
// of create and update requests, and update echoes it back.
type PackListFields struct {
	Title      string     `json:"title"`
	DateLeave  *Date      `json:"date_leave"`
	DateReturn *Date      `json:"date_return"`
	Pack       []PackItem `json:"pack"`
	Timestamp  *Date      `json:"timestamp"`
}

// Normalize returns a copy with empty dates dropped and a non-nil pack.
// Pack order and duplicates are kept as submitted.
func (f PackListFields) Normalize() PackListFields {
	out := PackListFields{
		Title:      f.Title,
		DateLeave:  dateOrNil(f.DateLeave),
		DateReturn: dateOrNil(f.DateReturn),
		Timestamp:  dateOrNil(f.Timestamp),
		Pack:       make([]PackItem, len(f.Pack)),
	}
	copy(out.Pack, f.Pack)
	return out
}

// PackList is a stored packing list.
type PackList struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	DateLeave  *Date      `json:"date_leave"`
	DateReturn *Date      `json:"date_return"`
	Pack       []PackItem `json:"pack"`
	Timestamp  *Date      `json:"timestamp"`
	UserID     string     `json:"user"`
}

// NewPackList builds an unsaved PackList owned by userID. A missing
// timestamp defaults to now.
func NewPackList(userID string, f PackListFields, now time.Time) *PackList {
	f = f.Normalize()
	if f.Timestamp == nil {
		f.Timestamp = NewDate(now)
	}
	pl := &PackList{UserID: userID}
	pl.Replace(f)
	return pl
}

// Replace overwrites every client-writable field. Ownership is untouched.
func (p *PackList) Replace(f PackListFields) {
	p.Title = f.Title
	p.DateLeave = f.DateLeave
	p.DateReturn = f.DateReturn
	p.Pack = f.Pack
	p.Timestamp = f.Timestamp
}

// Fields returns the client-writable part of p.
func (p *PackList) Fields() PackListFields {
	return PackListFields{
		Title:      p.Title,
		DateLeave:  p.DateLeave,
		DateReturn: p.DateReturn,
		Pack:       p.Pack,
		Timestamp:  p.Timestamp,
	}
}

// PackListView is the wire shape of a PackList with its owner resolved.
type PackListView struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	DateLeave  *Date      `json:"date_leave"`
	DateReturn *Date      `json:"date_return"`
	Pack       []PackItem `json:"pack"`
	Timestamp  *Date      `json:"timestamp"`
	User       *UserView  `json:"user"`
}

// Serialize renders p for output. owner may be nil when the referenced user
// no longer exists, in which case user is rendered as null.
func (p *PackList) Serialize(owner *User) *PackListView {
	pack := p.Pack
	if pack == nil {
		pack = []PackItem{}
	}
	v := &PackListView{
		ID:         p.ID,
		Title:      p.Title,
		DateLeave:  p.DateLeave,
		DateReturn: p.DateReturn,
		Pack:       pack,
		Timestamp:  p.Timestamp,
	}
	if owner != nil {
		v.User = owner.Serialize()
	}
	return v
}
