package server

import (
	"encoding/json"
	"testing"
	"time"

	"stayvista/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRoom_JSONRoundTripKeepsUnknownFields(t *testing.T) {
	in := `{
		"_id": "65f1c0ffee0000000000beef",
		"title": "Beach house",
		"category": "villa",
		"price": 120,
		"amenities": ["pool", "wifi"],
		"host": {"name": "Alice", "email": "a@x.com", "image": "a.png", "verified": true}
	}`

	var r Room
	require.NoError(t, json.Unmarshal([]byte(in), &r))
	assert.Equal(t, "65f1c0ffee0000000000beef", r.ID)
	assert.Equal(t, "villa", r.Category)
	assert.Equal(t, "Alice", r.Host.Name)
	assert.Equal(t, "a@x.com", r.Host.Email)
	assert.Equal(t, "a.png", r.Host.Image)
	assert.Equal(t, map[string]any{"verified": true}, r.Host.Extra)
	assert.Equal(t, "Beach house", r.Extra["title"])

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestRoom_UnmarshalRejectsWrongTypes(t *testing.T) {
	for _, in := range []string{
		`{"category": 3}`,
		`{"host": "alice"}`,
		`{"host": {"email": ["a@x.com"]}}`,
		`[1,2]`,
	} {
		var r Room
		err := json.Unmarshal([]byte(in), &r)
		require.Error(t, err, in)
		assert.Equal(t, shared.KindValidation, shared.KindOf(err), in)
	}
}

func TestRoom_NullAndEmptyFieldsAreKept(t *testing.T) {
	for _, in := range []string{
		`{"category": null, "host": null, "note": null}`,
		`{"category": "", "title": "t", "host": {"email": ""}}`,
		`{"host": {}}`,
		`{"host": {"name": null, "email": "a@x.com", "image": ""}}`,
		`{}`,
	} {
		var r Room
		require.NoError(t, json.Unmarshal([]byte(in), &r), in)
		out, err := json.Marshal(r)
		require.NoError(t, err)
		assert.JSONEq(t, in, string(out), in)
	}

	var r Room
	require.NoError(t, json.Unmarshal([]byte(`{"category": null, "host": {"email": ""}}`), &r))
	assert.Empty(t, r.Category)
	assert.Empty(t, r.Host.Email)
	assert.True(t, RoomFilter{}.Matches(r))
	assert.False(t, RoomFilter{Category: "villa"}.Matches(r))
}

func TestRoom_CodeBuiltRoomsOmitEmptyFields(t *testing.T) {
	out, err := json.Marshal(Room{Category: "villa"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"category":"villa"}`, string(out))
}

func TestRoomFromDocument_StoredMistypedFieldsAreKept(t *testing.T) {
	doc := primitive.M{
		"_id":      primitive.NewObjectID(),
		"category": int32(3),
		"host":     "alice",
		"title":    "legacy",
	}
	r, err := roomFromDocument(doc, false)
	require.NoError(t, err)
	assert.Empty(t, r.Category)
	assert.Equal(t, int32(3), r.Extra["category"])
	assert.Equal(t, "alice", r.Extra["host"])

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"`+r.ID+`","category":3,"host":"alice","title":"legacy"}`, string(out))

	r, err = roomFromDocument(primitive.M{"host": primitive.M{"email": 42, "name": "Bob"}}, false)
	require.NoError(t, err)
	assert.Equal(t, "Bob", r.Host.Name)
	assert.Empty(t, r.Host.Email)
	assert.Equal(t, 42, r.Host.Extra["email"])

	_, err = roomFromDocument(doc, true)
	require.Error(t, err)
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
}

func TestDecodeStoredRoom_Lenient(t *testing.T) {
	r, err := decodeStoredRoom([]byte(`{"_id":"65f1c0ffee0000000000beef","category":["a"],"host":{"email":""}}`))
	require.NoError(t, err)
	assert.Equal(t, "65f1c0ffee0000000000beef", r.ID)
	assert.Equal(t, []any{"a"}, r.Extra["category"])

	_, err = decodeStoredRoom([]byte(`not json`))
	require.Error(t, err)
}

func TestRoomFromDocument_NormalizesBSON(t *testing.T) {
	oid := primitive.NewObjectID()
	when := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	doc := primitive.M{
		"_id":      oid,
		"category": "cabin",
		"host":     primitive.D{{Key: "email", Value: "h@x.com"}, {Key: "rating", Value: int32(5)}},
		"photos":   primitive.A{"a.jpg", primitive.M{"url": "b.jpg"}},
		"listed":   primitive.NewDateTimeFromTime(when),
	}

	r, err := roomFromDocument(doc, false)
	require.NoError(t, err)
	assert.Equal(t, oid.Hex(), r.ID)
	assert.Equal(t, "cabin", r.Category)
	assert.Equal(t, "h@x.com", r.Host.Email)
	assert.Equal(t, int32(5), r.Host.Extra["rating"])
	assert.Equal(t, []any{"a.jpg", map[string]any{"url": "b.jpg"}}, r.Extra["photos"])
	assert.Equal(t, "2026-03-01T12:00:00Z", r.Extra["listed"])
}

func TestRoomFilter_Matches(t *testing.T) {
	r := Room{Category: "villa", Host: Host{Email: "a@x.com"}}

	assert.True(t, RoomFilter{}.Matches(r))
	assert.True(t, RoomFilter{Category: "villa"}.Matches(r))
	assert.False(t, RoomFilter{Category: "cabin"}.Matches(r))
	assert.True(t, RoomFilter{HostEmail: "a@x.com"}.Matches(r))
	assert.False(t, RoomFilter{HostEmail: "b@x.com"}.Matches(r))
}

func TestParseRoomID(t *testing.T) {
	oid := primitive.NewObjectID()
	got, err := parseRoomID("op", oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, oid, got)

	for _, bad := range []string{"", "123", "zzzzzzzzzzzzzzzzzzzzzzzz", oid.Hex() + "00"} {
		_, err := parseRoomID("op", bad)
		require.Error(t, err, bad)
		assert.Equal(t, shared.KindValidation, shared.KindOf(err))
		assert.Equal(t, "invalid room id", shared.ClientMessage(err))
	}
}
