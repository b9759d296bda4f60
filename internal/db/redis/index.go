package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dira-homes/dira/internal/db"
)

// wholeValueSeparator keeps substring fields from being split into several
// tags: listing text never contains the ASCII unit separator.
const wholeValueSeparator = "\x1f"

// EnsureCollection creates the JSON search index backing a collection. An
// existing index is left untouched.
func (s *Store) EnsureCollection(ctx context.Context, def *db.CollectionDefinition) error {
	idx, err := s.collectionIndex(def)
	if err != nil {
		return err
	}
	if err := s.CreateIndex(ctx, idx); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return err
	}
	return nil
}

func (s *Store) collectionIndex(def *db.CollectionDefinition) (*db.IndexDefinition, error) {
	b := db.NewIndex(s.indexName(def.Name)).
		OnJSON().
		Prefix(s.docPrefix(def.Name))

	for _, f := range def.Fields {
		jsonPath := "$." + f.Path
		switch f.Type {
		case db.IndexFieldNumeric:
			b.Numeric(jsonPath).As(db.Alias(f.Path))
		case db.IndexFieldSubstring:
			b.Tag(jsonPath).As(db.Alias(f.Path)).
				CaseSensitive().
				Separator(wholeValueSeparator).
				SuffixTrie()
		case db.IndexFieldTag:
			b.Tag(jsonPath).As(db.Alias(f.Path)).CaseSensitive().IndexEmpty()
		}
	}
	return b.Build()
}

// CreateIndex creates an FT index from the given definition.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	args, err := buildCreateArgs(def)
	if err != nil {
		return err
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

func buildCreateArgs(idx *db.IndexDefinition) ([]string, error) {
	if err := idx.Validate(); err != nil {
		return nil, fmt.Errorf("invalid index %q: %w", idx.Name, err)
	}

	args := []string{idx.Name}

	storage := idx.StorageType
	if storage == "" {
		storage = db.StorageHash
	}
	args = append(args, "ON", string(storage))

	if len(idx.Prefixes) > 0 {
		args = append(args, "PREFIX", strconv.Itoa(len(idx.Prefixes)))
		args = append(args, idx.Prefixes...)
	}

	args = append(args, "SCHEMA")

	for i := range idx.Fields {
		fieldArgs, err := buildFieldArgs(&idx.Fields[i])
		if err != nil {
			return nil, err
		}
		args = append(args, fieldArgs...)
	}

	return args, nil
}

func buildFieldArgs(f *db.IndexField) ([]string, error) {
	if f.Name == "" {
		return nil, errors.New("field name is required")
	}

	args := []string{f.Name}

	if f.Alias != "" {
		args = append(args, "AS", f.Alias)
	}

	switch f.Type {
	case db.IndexFieldNumeric:
		args = append(args, "NUMERIC")

	case db.IndexFieldTag:
		args = append(args, "TAG")
		if f.TagSeparator != "" {
			args = append(args, "SEPARATOR", f.TagSeparator)
		}
		if f.TagCaseSensitive {
			args = append(args, "CASESENSITIVE")
		}
		if f.TagSuffixTrie {
			args = append(args, "WITHSUFFIXTRIE")
		}
		if f.IndexEmpty {
			args = append(args, "INDEXEMPTY")
		}

	default:
		return nil, errors.New("unknown field type")
	}

	return args, nil
}
