package db

// IndexBuilder is a fluent builder for FT index definitions.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts building an FT index definition.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{
		def: IndexDefinition{
			Name:        name,
			StorageType: StorageHash,
		},
	}
}

// OnJSON sets the index storage type to JSON.
func (b *IndexBuilder) OnJSON() *IndexBuilder {
	b.def.StorageType = StorageJSON
	return b
}

// Prefix adds key prefixes to the index.
func (b *IndexBuilder) Prefix(prefixes ...string) *IndexBuilder {
	b.def.Prefixes = append(b.def.Prefixes, prefixes...)
	return b
}

// Numeric adds a NUMERIC field to the index.
func (b *IndexBuilder) Numeric(name string) *IndexBuilder {
	return b.add(IndexField{Name: name, Type: IndexFieldNumeric})
}

// Tag adds a TAG field to the index.
func (b *IndexBuilder) Tag(name string) *IndexBuilder {
	return b.add(IndexField{Name: name, Type: IndexFieldTag})
}

// As sets the alias of the last added field.
func (b *IndexBuilder) As(alias string) *IndexBuilder {
	if f := b.last(); f != nil {
		f.Alias = alias
	}
	return b
}

// CaseSensitive makes the last added TAG field case sensitive.
func (b *IndexBuilder) CaseSensitive() *IndexBuilder {
	if f := b.last(); f != nil && f.Type == IndexFieldTag {
		f.TagCaseSensitive = true
	}
	return b
}

// Separator sets the separator of the last added TAG field.
func (b *IndexBuilder) Separator(sep string) *IndexBuilder {
	if f := b.last(); f != nil && f.Type == IndexFieldTag {
		f.TagSeparator = sep
	}
	return b
}

// SuffixTrie adds a suffix trie to the last added TAG field.
func (b *IndexBuilder) SuffixTrie() *IndexBuilder {
	if f := b.last(); f != nil && f.Type == IndexFieldTag {
		f.TagSuffixTrie = true
	}
	return b
}

// IndexEmpty indexes empty values of the last added field so they can be
// matched explicitly.
func (b *IndexBuilder) IndexEmpty() *IndexBuilder {
	if f := b.last(); f != nil {
		f.IndexEmpty = true
	}
	return b
}

// Build validates and returns the definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	def := b.def
	return &def, nil
}

func (b *IndexBuilder) add(f IndexField) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, f)
	return b
}

func (b *IndexBuilder) last() *IndexField {
	if len(b.def.Fields) == 0 {
		return nil
	}
	return &b.def.Fields[len(b.def.Fields)-1]
}
