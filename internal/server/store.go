package server

import (
	"context"
	"encoding/json"
	"sync"

	"stayvista/internal/shared"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoomStore is the single collection the API reads and writes.
// Implementations assign 24-hex ObjectID identities and reject
// malformed identifiers with a KindValidation error.
type RoomStore interface {
	InsertRoom(ctx context.Context, room Room) (shared.InsertResult, error)
	FindRooms(ctx context.Context, filter RoomFilter) ([]Room, error)
	FindRoomByID(ctx context.Context, id string) (Room, error)
	DeleteRoomByID(ctx context.Context, id string) (shared.DeleteResult, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

func errRoomNotFound(op string) error {
	return shared.Errorf(shared.KindNotFound, op, "room not found")
}

// MemoryStore keeps rooms in insertion order. Rooms are stored as JSON so
// callers never share maps with the store.
type MemoryStore struct {
	mu    sync.Mutex
	rooms []memoryRoom
}

type memoryRoom struct {
	id  string
	doc []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) InsertRoom(ctx context.Context, room Room) (shared.InsertResult, error) {
	if err := ctx.Err(); err != nil {
		return shared.InsertResult{}, shared.Wrap(shared.KindUnavailable, "rooms.insert", err)
	}
	room.ID = primitive.NewObjectID().Hex()
	doc, err := json.Marshal(room)
	if err != nil {
		return shared.InsertResult{}, shared.Wrap(shared.KindInternal, "rooms.insert", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms = append(s.rooms, memoryRoom{id: room.ID, doc: doc})
	return shared.InsertResult{Acknowledged: true, InsertedID: room.ID}, nil
}

func (s *MemoryStore) FindRooms(ctx context.Context, filter RoomFilter) ([]Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, shared.Wrap(shared.KindUnavailable, "rooms.find", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []Room{}
	for _, mr := range s.rooms {
		r, err := decodeStoredRoom(mr.doc)
		if err != nil {
			return nil, shared.Wrap(shared.KindInternal, "rooms.find", err)
		}
		if filter.Matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemoryStore) FindRoomByID(ctx context.Context, id string) (Room, error) {
	oid, err := parseRoomID("rooms.get", id)
	if err != nil {
		return Room{}, err
	}
	if err := ctx.Err(); err != nil {
		return Room{}, shared.Wrap(shared.KindUnavailable, "rooms.get", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, mr := range s.rooms {
		if mr.id != oid.Hex() {
			continue
		}
		r, err := decodeStoredRoom(mr.doc)
		if err != nil {
			return Room{}, shared.Wrap(shared.KindInternal, "rooms.get", err)
		}
		return r, nil
	}
	return Room{}, errRoomNotFound("rooms.get")
}

func (s *MemoryStore) DeleteRoomByID(ctx context.Context, id string) (shared.DeleteResult, error) {
	oid, err := parseRoomID("rooms.delete", id)
	if err != nil {
		return shared.DeleteResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return shared.DeleteResult{}, shared.Wrap(shared.KindUnavailable, "rooms.delete", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, mr := range s.rooms {
		if mr.id == oid.Hex() {
			s.rooms = append(s.rooms[:i], s.rooms[i+1:]...)
			return shared.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
		}
	}
	return shared.DeleteResult{Acknowledged: true}, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return shared.Wrap(shared.KindUnavailable, "rooms.ping", ctx.Err())
}

func (s *MemoryStore) Close(context.Context) error {
	return nil
}
