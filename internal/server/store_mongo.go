package server

import (
	"context"
	"errors"
	"fmt"

	"stayvista/internal/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore serves rooms from one MongoDB collection. The client is
// owned by the store and released by Close.
type MongoStore struct {
	client *mongo.Client
	rooms  *mongo.Collection
}

// ConnectMongo dials uri with the stable Server API v1 and pings the
// deployment before returning.
func ConnectMongo(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI))
	if err != nil {
		return nil, mongoErr("rooms.connect", err)
	}
	s := NewMongoStore(client, database, collection)
	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func NewMongoStore(client *mongo.Client, database, collection string) *MongoStore {
	return &MongoStore{
		client: client,
		rooms:  client.Database(database).Collection(collection),
	}
}

func (s *MongoStore) InsertRoom(ctx context.Context, room Room) (shared.InsertResult, error) {
	oid := primitive.NewObjectID()
	doc := roomToBSON(room, oid)

	if _, err := s.rooms.InsertOne(ctx, doc); err != nil {
		return shared.InsertResult{}, mongoErr("rooms.insert", err)
	}
	return shared.InsertResult{Acknowledged: true, InsertedID: oid.Hex()}, nil
}

func (s *MongoStore) FindRooms(ctx context.Context, filter RoomFilter) ([]Room, error) {
	cur, err := s.rooms.Find(ctx, filterToBSON(filter))
	if err != nil {
		return nil, mongoErr("rooms.find", err)
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mongoErr("rooms.find", err)
	}

	out := make([]Room, 0, len(docs))
	for _, d := range docs {
		r, err := roomFromDocument(d, false)
		if err != nil {
			return nil, shared.Wrap(shared.KindInternal, "rooms.find", err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *MongoStore) FindRoomByID(ctx context.Context, id string) (Room, error) {
	oid, err := parseRoomID("rooms.get", id)
	if err != nil {
		return Room{}, err
	}

	var doc bson.M
	if err := s.rooms.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Room{}, errRoomNotFound("rooms.get")
		}
		return Room{}, mongoErr("rooms.get", err)
	}
	r, err := roomFromDocument(doc, false)
	if err != nil {
		return Room{}, shared.Wrap(shared.KindInternal, "rooms.get", err)
	}
	return r, nil
}

func (s *MongoStore) DeleteRoomByID(ctx context.Context, id string) (shared.DeleteResult, error) {
	oid, err := parseRoomID("rooms.delete", id)
	if err != nil {
		return shared.DeleteResult{}, err
	}

	res, err := s.rooms.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return shared.DeleteResult{}, mongoErr("rooms.delete", err)
	}
	return shared.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	err := s.client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
	return mongoErr("rooms.ping", err)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func filterToBSON(f RoomFilter) bson.M {
	q := bson.M{}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.HostEmail != "" {
		q["host.email"] = f.HostEmail
	}
	return q
}

func roomToBSON(r Room, oid primitive.ObjectID) bson.M {
	r.ID = ""
	doc := bson.M{}
	for k, v := range r.Document() {
		doc[k] = v
	}
	doc["_id"] = oid
	return doc
}

func mongoErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, mongo.ErrClientDisconnected) {
		return shared.Wrap(shared.KindUnavailable, op, err)
	}
	// The server answered, so the deployment is reachable.
	var se mongo.ServerError
	if errors.As(err, &se) {
		return shared.Wrap(shared.KindInternal, op, fmt.Errorf("server error: %w", err))
	}
	// Anything else (server selection, pool errors) means no usable connection.
	return shared.Wrap(shared.KindUnavailable, op, err)
}
