package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"stayvista/internal/shared"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SQLiteStore keeps each room as a JSON document next to the two columns
// the API filters on. Results come back in insertion order.
type SQLiteStore struct {
	DB *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{DB: db}
}

func (s *SQLiteStore) InsertRoom(ctx context.Context, room Room) (shared.InsertResult, error) {
	room.ID = primitive.NewObjectID().Hex()
	doc, err := json.Marshal(room)
	if err != nil {
		return shared.InsertResult{}, shared.Wrap(shared.KindInternal, "rooms.insert", err)
	}

	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO rooms (id, category, host_email, doc_json, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		room.ID, room.Category, room.Host.Email, string(doc), time.Now().Unix(),
	)
	if err != nil {
		return shared.InsertResult{}, sqliteErr("rooms.insert", err)
	}
	return shared.InsertResult{Acknowledged: true, InsertedID: room.ID}, nil
}

func (s *SQLiteStore) FindRooms(ctx context.Context, filter RoomFilter) ([]Room, error) {
	var (
		where []string
		args  []any
	)
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.HostEmail != "" {
		where = append(where, "host_email = ?")
		args = append(args, filter.HostEmail)
	}
	q := `SELECT doc_json FROM rooms`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY seq`

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, sqliteErr("rooms.find", err)
	}
	defer rows.Close()

	out := []Room{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, sqliteErr("rooms.find", err)
		}
		r, err := decodeStoredRoom([]byte(doc))
		if err != nil {
			return nil, shared.Wrap(shared.KindInternal, "rooms.find", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, sqliteErr("rooms.find", err)
	}
	return out, nil
}

func (s *SQLiteStore) FindRoomByID(ctx context.Context, id string) (Room, error) {
	oid, err := parseRoomID("rooms.get", id)
	if err != nil {
		return Room{}, err
	}

	var doc string
	err = s.DB.QueryRowContext(ctx, `SELECT doc_json FROM rooms WHERE id = ?`, oid.Hex()).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Room{}, errRoomNotFound("rooms.get")
		}
		return Room{}, sqliteErr("rooms.get", err)
	}

	r, err := decodeStoredRoom([]byte(doc))
	if err != nil {
		return Room{}, shared.Wrap(shared.KindInternal, "rooms.get", err)
	}
	return r, nil
}

func (s *SQLiteStore) DeleteRoomByID(ctx context.Context, id string) (shared.DeleteResult, error) {
	oid, err := parseRoomID("rooms.delete", id)
	if err != nil {
		return shared.DeleteResult{}, err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, oid.Hex())
	if err != nil {
		return shared.DeleteResult{}, sqliteErr("rooms.delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return shared.DeleteResult{}, sqliteErr("rooms.delete", err)
	}
	return shared.DeleteResult{Acknowledged: true, DeletedCount: n}, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return sqliteErr("rooms.ping", s.DB.PingContext(ctx))
}

func (s *SQLiteStore) Close(context.Context) error {
	return s.DB.Close()
}

func sqliteErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, sql.ErrConnDone) {
		return shared.Wrap(shared.KindUnavailable, op, err)
	}
	return shared.Wrap(shared.KindInternal, op, err)
}
