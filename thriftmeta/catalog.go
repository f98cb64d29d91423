// Copyright (c) 2016 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package thriftmeta

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Catalog is the shared, process-wide registry of struct and enum
// descriptors. It is read-mostly: lookups from the codec's hot path never
// take a write lock, and registration (which every adapter does once,
// typically from an init function or a one-time setup call) is fully
// serialized so two goroutines registering overlapping struct graphs can
// never observe a half-built descriptor.
type Catalog struct {
	mu      sync.RWMutex
	structs map[string]*StructMetadata
	enums   map[string]*EnumMetadata

	// building tracks struct names currently mid-registration, so a
	// recursive reference (a struct that contains itself, directly or
	// through a List/Set/Map) can be resolved to the same *StructMetadata
	// that BeginStruct handed out and FinishStruct will publish, instead
	// of recursing forever.
	building map[string]*StructMetadata

	logger *zap.Logger
}

// Option configures a Catalog at construction time.
type Option func(*Catalog)

// WithLogger sets the logger a Catalog uses to record each successful
// registration at debug level; a duplicate registration is returned as an
// error and not logged. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Catalog) { c.logger = logger }
}

// NewCatalog builds an empty Catalog.
func NewCatalog(opts ...Option) *Catalog {
	c := &Catalog{
		structs:  make(map[string]*StructMetadata),
		enums:    make(map[string]*EnumMetadata),
		building: make(map[string]*StructMetadata),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MetadataError reports a problem with a struct or enum descriptor itself
// (duplicate registration, unresolved forward reference, missing field),
// as distinct from a problem with bytes on the wire.
type MetadataError struct {
	Message string
}

func (e *MetadataError) Error() string { return "thriftmeta: " + e.Message }

// BeginStruct reserves name in the catalog for a struct currently being
// described, returning the (still field-less) StructMetadata that any
// cyclic reference during this registration should point at. The caller
// must call FinishStruct with the same name once ByID/ByName/NewBuilder/
// Build have all been set.
func (c *Catalog) BeginStruct(name string, category Category) (*StructMetadata, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.structs[name]; ok {
		return nil, &MetadataError{Message: fmt.Sprintf("struct %q already registered", name)}
	}
	if _, ok := c.building[name]; ok {
		return nil, &MetadataError{Message: fmt.Sprintf("struct %q already being registered", name)}
	}

	meta := &StructMetadata{
		Name:     name,
		Category: category,
		ByID:     make(map[int16]*FieldMetadata),
		ByName:   make(map[string]*FieldMetadata),
	}
	c.building[name] = meta
	return meta, nil
}

// FinishStruct publishes a struct begun with BeginStruct, making it
// visible to Struct/Type lookups and to later registrations that forward-
// referenced it.
func (c *Catalog) FinishStruct(meta *StructMetadata) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.building[meta.Name]; !ok {
		return &MetadataError{Message: fmt.Sprintf("struct %q was not begun with BeginStruct", meta.Name)}
	}
	if meta.NewBuilder == nil || meta.Build == nil {
		return &MetadataError{Message: fmt.Sprintf("struct %q missing a construction plan", meta.Name)}
	}
	delete(c.building, meta.Name)
	c.structs[meta.Name] = meta
	c.logger.Debug("registered thrift struct", zap.String("name", meta.Name), zap.Stringer("category", meta.Category))
	return nil
}

// StructType looks up a struct by name, checking both published structs
// and structs mid-registration (the cycle-breaking path), and wraps the
// result in a ThriftType.
func (c *Catalog) StructType(name string) (*ThriftType, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if meta, ok := c.structs[name]; ok {
		return StructTypeOf(meta), nil
	}
	if meta, ok := c.building[name]; ok {
		return StructTypeOf(meta), nil
	}
	return nil, &MetadataError{Message: fmt.Sprintf("unknown struct %q", name)}
}

// Struct looks up a published struct descriptor by name.
func (c *Catalog) Struct(name string) (*StructMetadata, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	meta, ok := c.structs[name]
	if !ok {
		return nil, &MetadataError{Message: fmt.Sprintf("unknown struct %q", name)}
	}
	return meta, nil
}

// RegisterEnum adds an enum descriptor to the catalog.
func (c *Catalog) RegisterEnum(meta *EnumMetadata) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.enums[meta.Name]; ok {
		return &MetadataError{Message: fmt.Sprintf("enum %q already registered", meta.Name)}
	}
	c.enums[meta.Name] = meta
	c.logger.Debug("registered thrift enum", zap.String("name", meta.Name))
	return nil
}

// Enum looks up an enum descriptor by name.
func (c *Catalog) Enum(name string) (*EnumMetadata, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	meta, ok := c.enums[name]
	if !ok {
		return nil, &MetadataError{Message: fmt.Sprintf("unknown enum %q", name)}
	}
	return meta, nil
}

// EnumType looks up an enum by name and wraps it in a ThriftType.
func (c *Catalog) EnumType(name string) (*ThriftType, error) {
	meta, err := c.Enum(name)
	if err != nil {
		return nil, err
	}
	return EnumTypeOf(meta), nil
}
