package server

import (
	"encoding/json"
	"time"

	"stayvista/internal/shared"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Host is the listing owner embedded in a room.
type Host struct {
	Name  string
	Email string
	Image string
	Extra map[string]any

	// set records named fields that were present when decoded, so empty
	// strings survive a round trip.
	set fieldSet
}

// Room is a listing. Category and Host.Email are the only fields the API
// queries on; everything else the client sends is kept in Extra.
type Room struct {
	ID       string
	Category string
	Host     Host
	Extra    map[string]any

	set     fieldSet
	hasHost bool
}

type fieldSet uint8

const (
	fieldCategory fieldSet = 1 << iota
	fieldName
	fieldEmail
	fieldImage
)

// RoomFilter constrains FindRooms. Empty fields match everything.
type RoomFilter struct {
	Category  string
	HostEmail string
}

func (f RoomFilter) Matches(r Room) bool {
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	if f.HostEmail != "" && r.Host.Email != f.HostEmail {
		return false
	}
	return true
}

func putString(doc map[string]any, key, v string, present bool) {
	if v != "" || present {
		doc[key] = v
	}
}

// Document flattens the room back into the shape clients sent,
// with the identity under "_id".
func (r Room) Document() map[string]any {
	doc := make(map[string]any, len(r.Extra)+3)
	for k, v := range r.Extra {
		doc[k] = v
	}
	if r.ID != "" {
		doc["_id"] = r.ID
	}
	putString(doc, "category", r.Category, r.set&fieldCategory != 0)
	if host := r.Host.document(); len(host) > 0 || r.hasHost {
		doc["host"] = host
	}
	return doc
}

func (h Host) document() map[string]any {
	doc := make(map[string]any, len(h.Extra)+3)
	for k, v := range h.Extra {
		doc[k] = v
	}
	putString(doc, "name", h.Name, h.set&fieldName != 0)
	putString(doc, "email", h.Email, h.set&fieldEmail != 0)
	putString(doc, "image", h.Image, h.set&fieldImage != 0)
	return doc
}

func (r Room) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Document())
}

// UnmarshalJSON decodes a client-supplied room. Named fields of the wrong
// type are rejected.
func (r *Room) UnmarshalJSON(b []byte) error {
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return shared.Errorf(shared.KindValidation, "room.decode", "room must be a JSON object")
	}
	room, err := roomFromDocument(doc, true)
	if err != nil {
		return err
	}
	*r = room
	return nil
}

// decodeStoredRoom reads a room a store wrote earlier. Stored data is
// never rejected; mistyped named fields are kept in Extra.
func decodeStoredRoom(b []byte) (Room, error) {
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return Room{}, err
	}
	return roomFromDocument(doc, false)
}

// roomFromDocument builds a Room from a JSON- or BSON-decoded document.
// With strict unset it cannot fail: a named field of the wrong type stays
// in Extra under its own key. Null named fields always go to Extra so
// they are written back as null.
func roomFromDocument(doc map[string]any, strict bool) (Room, error) {
	var r Room
	extra := func(k string, v any) {
		if r.Extra == nil {
			r.Extra = map[string]any{}
		}
		r.Extra[k] = v
	}
	for k, raw := range doc {
		v := normalizeValue(raw)
		switch k {
		case "_id":
			if s, ok := v.(string); ok {
				r.ID = s
			}
		case "category":
			s, ok := v.(string)
			switch {
			case ok:
				r.Category = s
				r.set |= fieldCategory
			case v == nil || !strict:
				extra(k, v)
			default:
				return Room{}, shared.Errorf(shared.KindValidation, "room.decode", "category must be a string")
			}
		case "host":
			m, ok := v.(map[string]any)
			switch {
			case ok:
				h, err := hostFromDocument(m, strict)
				if err != nil {
					return Room{}, err
				}
				r.Host = h
				r.hasHost = true
			case v == nil || !strict:
				extra(k, v)
			default:
				return Room{}, shared.Errorf(shared.KindValidation, "room.decode", "host must be an object")
			}
		default:
			extra(k, v)
		}
	}
	return r, nil
}

func hostFromDocument(doc map[string]any, strict bool) (Host, error) {
	var h Host
	for k, v := range doc {
		var (
			dst  *string
			flag fieldSet
		)
		switch k {
		case "name":
			dst, flag = &h.Name, fieldName
		case "email":
			dst, flag = &h.Email, fieldEmail
		case "image":
			dst, flag = &h.Image, fieldImage
		}
		s, ok := v.(string)
		switch {
		case dst != nil && ok:
			*dst = s
			h.set |= flag
		case dst == nil || v == nil || !strict:
			if h.Extra == nil {
				h.Extra = map[string]any{}
			}
			h.Extra[k] = v
		default:
			return Host{}, shared.Errorf(shared.KindValidation, "room.decode", "host.%s must be a string", k)
		}
	}
	return h, nil
}

// normalizeValue converts driver-specific values into plain Go values
// that encode to JSON the way clients expect.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = normalizeValue(e.Value)
		}
		return m
	case primitive.M:
		return normalizeValue(map[string]any(t))
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = normalizeValue(e)
		}
		return m
	case primitive.A:
		return normalizeValue([]any(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC().Format(time.RFC3339Nano)
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return v
	}
}

// parseRoomID validates a path identifier as a store identity.
func parseRoomID(op, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, &shared.Error{Kind: shared.KindValidation, Op: op, Message: "invalid room id", Err: err}
	}
	return oid, nil
}
