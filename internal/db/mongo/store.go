// Package mongo implements db.DocumentStore on MongoDB via mgo.
package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/dira-homes/dira/internal/db"
	"github.com/dira-homes/dira/internal/domain/search/filter"
)

// Compile-time check: Store implements db.DocumentStore.
var _ db.DocumentStore = (*Store)(nil)

// Config holds connection parameters for a MongoDB store.
type Config struct {
	URL         string
	Database    string
	DialTimeout time.Duration
}

// Store keeps one root session and copies it per operation.
type Store struct {
	session *mgo.Session
	dbName  string
}

// NewStore dials MongoDB.
func NewStore(cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("url is required")
	}
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	session, err := mgo.DialWithTimeout(cfg.URL, timeout)
	if err != nil {
		return nil, fmt.Errorf("dial mongo: %w", err)
	}
	session.SetMode(mgo.Monotonic, true)
	session.SetSafe(&mgo.Safe{})
	return &Store{session: session, dbName: cfg.Database}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(_ context.Context) error {
	sess := s.session.Copy()
	defer sess.Close()
	if err := sess.Ping(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the root session.
func (s *Store) Close() {
	s.session.Close()
}

// EnsureCollection creates background indexes on the filterable scalar
// paths. Substring paths are matched by $regex and get no index.
func (s *Store) EnsureCollection(_ context.Context, def *db.CollectionDefinition) error {
	sess, c := s.collection(def.Name)
	defer sess.Close()

	for _, f := range def.Fields {
		if f.Type == db.IndexFieldSubstring {
			continue
		}
		key := mongoPath(f.Path)
		if key == "_id" {
			continue
		}
		if err := c.EnsureIndex(mgo.Index{Key: []string{key}, Background: true}); err != nil {
			return &db.Error{Op: db.OpEnsureIndex, Err: err}
		}
	}
	return nil
}

// InsertDocument stores a JSON document with id as _id.
func (s *Store) InsertDocument(_ context.Context, collection, id string, data []byte) error {
	var doc bson.M
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	doc["_id"] = id

	sess, c := s.collection(collection)
	defer sess.Close()

	if err := c.Insert(doc); err != nil {
		if mgo.IsDup(err) {
			return db.ErrKeyExists
		}
		return &db.Error{Op: db.OpInsert, Err: err}
	}
	return nil
}

// GetDocument loads a document by id.
func (s *Store) GetDocument(_ context.Context, collection, id string) ([]byte, error) {
	sess, c := s.collection(collection)
	defer sess.Close()

	var doc bson.M
	if err := c.FindId(id).One(&doc); err != nil {
		if errors.Is(err, mgo.ErrNotFound) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	_, data, err := encodeDocument(doc)
	return data, err
}

// FindDocuments runs the compiled filter with skip/limit.
func (s *Store) FindDocuments(_ context.Context, q *db.FindQuery) ([]db.Document, error) {
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}
	query, err := buildFilter(q.Filter)
	if err != nil {
		return nil, err
	}

	sess, c := s.collection(q.Collection)
	defer sess.Close()

	var raw []bson.M
	if err := c.Find(query).Skip(max(q.Offset, 0)).Limit(q.Limit).All(&raw); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	docs := make([]db.Document, 0, len(raw))
	for _, doc := range raw {
		id, data, err := encodeDocument(doc)
		if err != nil {
			return nil, err
		}
		docs = append(docs, db.Document{ID: id, Data: data})
	}
	return docs, nil
}

// CountDocuments counts matches of the compiled filter.
func (s *Store) CountDocuments(_ context.Context, collection string, expr filter.Expression) (int, error) {
	query, err := buildFilter(expr)
	if err != nil {
		return 0, err
	}

	sess, c := s.collection(collection)
	defer sess.Close()

	n, err := c.Find(query).Count()
	if err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	return n, nil
}

func (s *Store) collection(name string) (*mgo.Session, *mgo.Collection) {
	sess := s.session.Copy()
	return sess, sess.DB(s.dbName).C(name)
}

// encodeDocument strips _id and re-encodes the document as JSON.
func encodeDocument(doc bson.M) (string, []byte, error) {
	id, _ := doc["_id"].(string)
	delete(doc, "_id")
	data, err := json.Marshal(doc)
	if err != nil {
		return "", nil, fmt.Errorf("encode document: %w", err)
	}
	return id, data, nil
}
