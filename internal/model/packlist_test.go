package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_AcceptedLayouts(t *testing.T) {
	t.Parallel()

	want := time.Date(2019, time.August, 2, 0, 0, 0, 0, time.UTC)
	tests := []string{
		"08/02/2019",
		"8/2/2019",
		"2019-08-02",
		"2019-08-02T00:00:00Z",
		"2019-08-02T00:00:00.000Z",
		"2019-08-01T20:00:00-04:00",
	}

	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			d, err := ParseDate(in)
			require.NoError(t, err)
			assert.True(t, want.Equal(d.Time), "got %s", d.Time)
		})
	}
}

func TestParseDate_RejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := ParseDate("next tuesday")
	assert.Error(t, err)
}

func TestDate_JSONRoundTripFormat(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(MustParseDate("08/16/2019"))
	require.NoError(t, err)
	assert.Equal(t, `"2019-08-16T00:00:00.000Z"`, string(data))
}

func TestPackListFields_Decode_CompleteDefaultsFalse(t *testing.T) {
	t.Parallel()

	body := `{
		"title": "Toronto",
		"date_leave": "08/02/2019",
		"date_return": "08/16/2019",
		"pack": [{"pack_item": "Wallet"}, {"pack_item": "Jacket", "complete": true}, {"pack_item": "Passport"}]
	}`

	var f PackListFields
	require.NoError(t, json.Unmarshal([]byte(body), &f))
	f = f.Normalize()

	require.Len(t, f.Pack, 3)
	assert.Equal(t, "Wallet", f.Pack[0].PackItem)
	assert.False(t, f.Pack[0].Complete)
	assert.True(t, f.Pack[1].Complete)
	assert.False(t, f.Pack[2].Complete)
	assert.Equal(t, 2019, f.DateLeave.Year())
	assert.Nil(t, f.Timestamp)
}

func TestPackListFields_Decode_EmptyAndNullDatesAreAbsent(t *testing.T) {
	t.Parallel()

	var f PackListFields
	require.NoError(t, json.Unmarshal([]byte(`{"date_leave": "", "date_return": null}`), &f))
	f = f.Normalize()

	assert.Nil(t, f.DateLeave)
	assert.Nil(t, f.DateReturn)
	assert.NotNil(t, f.Pack)
	assert.Empty(t, f.Pack)
}

func TestPackListFields_Decode_BadDateFails(t *testing.T) {
	t.Parallel()

	var f PackListFields
	err := json.Unmarshal([]byte(`{"date_leave": "soon"}`), &f)
	assert.Error(t, err)
}

func TestPackListFields_Normalize_CopiesPack(t *testing.T) {
	t.Parallel()

	in := PackListFields{Pack: []PackItem{{PackItem: "Socks"}, {PackItem: "Socks"}}}
	out := in.Normalize()
	out.Pack[0].PackItem = "Shoes"

	assert.Equal(t, "Socks", in.Pack[0].PackItem)
	assert.Len(t, out.Pack, 2, "duplicates are kept")
}

func TestNewPackList_DefaultsTimestamp(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.May, 1, 12, 30, 0, 0, time.UTC)
	pl := NewPackList("user:alice", PackListFields{Title: "Lisbon"}, now)

	require.NotNil(t, pl.Timestamp)
	assert.True(t, now.Equal(pl.Timestamp.Time))
	assert.Equal(t, "user:alice", pl.UserID)
	assert.Equal(t, "Lisbon", pl.Title)
}

func TestNewPackList_KeepsSuppliedTimestamp(t *testing.T) {
	t.Parallel()

	ts := MustParseDate("2020-01-01")
	pl := NewPackList("user:alice", PackListFields{Timestamp: ts}, time.Now())

	assert.True(t, ts.Equal(pl.Timestamp.Time))
}

func TestPackList_Replace_KeepsOwner(t *testing.T) {
	t.Parallel()

	pl := NewPackList("user:alice", PackListFields{Title: "Old"}, time.Now())
	pl.Replace(PackListFields{Title: "New", Pack: []PackItem{{PackItem: "Map"}}})

	assert.Equal(t, "New", pl.Title)
	assert.Nil(t, pl.Timestamp)
	assert.Equal(t, "user:alice", pl.UserID)
	assert.Equal(t, pl.Fields().Pack, []PackItem{{PackItem: "Map"}})
}

func TestPackList_Serialize_ResolvesOwner(t *testing.T) {
	t.Parallel()

	pl := &PackList{ID: "packlist:1", Title: "Oslo", UserID: "user:bob"}
	owner := &User{ID: "user:bob", Username: "bob", Hash: "secret", AuthorOf: []string{"packlist:1"}}

	data, err := json.Marshal(pl.Serialize(owner))
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, "packlist:1", got["id"])
	assert.Equal(t, []interface{}{}, got["pack"])
	user, ok := got["user"].(map[string]interface{})
	require.True(t, ok, "user should be an object")
	assert.Equal(t, "bob", user["username"])
	assert.NotContains(t, user, "hash")
	assert.NotContains(t, string(data), "secret")
}

func TestPackList_Serialize_MissingOwnerIsNull(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal((&PackList{ID: "packlist:1"}).Serialize(nil))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"user":null`)
}

func TestUser_Owns(t *testing.T) {
	t.Parallel()

	u := &User{AuthorOf: []string{"packlist:a", "packlist:b"}}

	assert.True(t, u.Owns("packlist:b"))
	assert.False(t, u.Owns("packlist:c"))
}
