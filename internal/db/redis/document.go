package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/dira-homes/dira/internal/db"
	"github.com/dira-homes/dira/internal/domain/search/filter"
)

// InsertDocument stores a JSON document (JSON.SET ... NX).
func (s *Store) InsertDocument(ctx context.Context, collection, id string, data []byte) error {
	cmd := s.b().Arbitrary("JSON.SET").Keys(s.docKey(collection, id)).Args("$", string(data), "NX").Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return db.ErrKeyExists
		}
		return &db.Error{Op: db.OpJSONSet, Err: err}
	}
	return nil
}

// GetDocument returns the root JSON document.
func (s *Store) GetDocument(ctx context.Context, collection, id string) ([]byte, error) {
	cmd := s.b().Arbitrary("JSON.GET").Keys(s.docKey(collection, id)).Build()
	raw, err := s.do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpJSONGet, Err: err}
	}
	if raw == "" {
		return nil, db.ErrKeyNotFound
	}
	return []byte(raw), nil
}

// FindDocuments runs FT.SEARCH with the compiled filter and returns the
// matching documents in result order.
func (s *Store) FindDocuments(ctx context.Context, q *db.FindQuery) ([]db.Document, error) {
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}
	query, err := buildFilter(q.Filter)
	if err != nil {
		return nil, err
	}

	args := []string{
		s.indexName(q.Collection), query,
		"RETURN", "1", "$",
		"LIMIT", strconv.Itoa(max(q.Offset, 0)), strconv.Itoa(q.Limit),
		"DIALECT", "2",
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	res, err := parseListResult(raw)
	if err != nil {
		return nil, err
	}

	prefix := s.docPrefix(q.Collection)
	docs := make([]db.Document, 0, len(res))
	for _, e := range res {
		body, ok := e.Fields["$"]
		if !ok {
			continue
		}
		docs = append(docs, db.Document{
			ID:   strings.TrimPrefix(e.Key, prefix),
			Data: []byte(body),
		})
	}
	return docs, nil
}

// CountDocuments returns the number of matches via FT.SEARCH with LIMIT 0 0.
func (s *Store) CountDocuments(ctx context.Context, collection string, expr filter.Expression) (int, error) {
	query, err := buildFilter(expr)
	if err != nil {
		return 0, err
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(s.indexName(collection), query, "LIMIT", "0", "0", "DIALECT", "2").Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return 0, &db.Error{Op: db.OpSearch, Err: err}
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

type searchEntry struct {
	Key    string
	Fields map[string]string
}

func parseListResult(raw []rueidis.RedisMessage) ([]searchEntry, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return nil, nil
	}

	entries := make([]searchEntry, 0, (len(raw)-1)/2)
	// 2-stride: [total, key1, fields1, key2, fields2, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		entries = append(entries, searchEntry{
			Key:    key,
			Fields: parseFieldPairs(fields),
		})
	}

	return entries, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}
