// Package taxonomy models the user's two-level category tree and the
// batch-local reconciliation used during bulk imports. A Batch is an
// explicit mutable snapshot: creations accumulate inside it and are visible
// to later rows of the same import, while the caller persists them once the
// whole batch has been mapped.
package taxonomy

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/centavo/centavo/internal/importer/normalize"
)

// Category is a node in the user's category tree. The hierarchy is strictly
// two levels deep: a category either has no parent, or its parent has no
// parent.
type Category struct {
	ID       uuid.UUID
	Name     string
	ParentID *uuid.UUID
}

// IsTopLevel reports whether the category has no parent.
func (c Category) IsTopLevel() bool {
	return c.ParentID == nil
}

// ErrEmptyName is returned when a resolution is attempted with no usable
// category name.
var ErrEmptyName = errors.New("taxonomy: empty category name")

// Resolution is the outcome of reconciling one (group, name) pair.
type Resolution struct {
	CategoryID  uuid.UUID
	DisplayName string
	Created     []Category // categories materialized by this call, parent first
	AliasFrom   string     // non-empty if the group name was rewritten by an alias
	AliasTo     string
}

// Batch is a mutable in-memory view of the taxonomy for one import run.
// It is not safe for concurrent use; imports process rows strictly in
// sequence against a single batch.
type Batch struct {
	topLevel map[string]*Category            // normalized name -> top-level category
	children map[uuid.UUID]map[string]*Category // parent id -> normalized name -> child
	aliases  AliasTable
	created  []Category
}

// NewBatch seeds a batch from the user's existing categories. Nodes deeper
// than two levels are unreachable by resolution and are ignored.
func NewBatch(existing []Category, aliases AliasTable) *Batch {
	b := &Batch{
		topLevel: make(map[string]*Category, len(existing)),
		children: make(map[uuid.UUID]map[string]*Category),
		aliases:  aliases,
	}

	byID := make(map[uuid.UUID]Category, len(existing))
	for _, c := range existing {
		byID[c.ID] = c
	}

	for _, c := range existing {
		c := c
		if c.ParentID == nil {
			b.topLevel[normalize.Key(c.Name)] = &c
			continue
		}
		parent, ok := byID[*c.ParentID]
		if !ok || parent.ParentID != nil {
			continue
		}
		b.addChild(*c.ParentID, &c)
	}
	return b
}

func (b *Batch) addChild(parentID uuid.UUID, c *Category) {
	m := b.children[parentID]
	if m == nil {
		m = make(map[string]*Category)
		b.children[parentID] = m
	}
	m[normalize.Key(c.Name)] = c
}

// Resolve finds or creates the category records for a (group, name) pair.
//
// With a group name, the group is found or created as a top-level category
// and the name is found or created as its child. Without a group name, the
// name itself is resolved as a top-level category; the source data sometimes
// omits the grouping column entirely.
//
// Group names pass through the alias table before lookup. Creations are
// recorded on the batch and visible to subsequent Resolve calls.
func (b *Batch) Resolve(groupName, name string) (Resolution, error) {
	if normalize.Key(name) == "" {
		return Resolution{}, ErrEmptyName
	}

	var res Resolution

	if rewritten, ok := b.aliases.Rewrite(groupName); ok {
		res.AliasFrom = groupName
		res.AliasTo = rewritten
		groupName = rewritten
	}

	if normalize.Key(groupName) == "" {
		leaf := b.findOrCreateTopLevel(name, &res)
		res.CategoryID = leaf.ID
		res.DisplayName = leaf.Name
		return res, nil
	}

	parent := b.findOrCreateTopLevel(groupName, &res)
	leaf := b.findOrCreateChild(parent, name, &res)
	res.CategoryID = leaf.ID
	res.DisplayName = leaf.Name
	return res, nil
}

func (b *Batch) findOrCreateTopLevel(name string, res *Resolution) *Category {
	key := normalize.Key(name)
	if c, ok := b.topLevel[key]; ok {
		return c
	}
	c := &Category{
		ID:   uuid.New(),
		Name: normalize.DisplayName(name),
	}
	b.topLevel[key] = c
	b.created = append(b.created, *c)
	res.Created = append(res.Created, *c)
	return c
}

func (b *Batch) findOrCreateChild(parent *Category, name string, res *Resolution) *Category {
	key := normalize.Key(name)
	if c, ok := b.children[parent.ID][key]; ok {
		return c
	}
	parentID := parent.ID
	c := &Category{
		ID:       uuid.New(),
		Name:     normalize.DisplayName(name),
		ParentID: &parentID,
	}
	b.addChild(parent.ID, c)
	b.created = append(b.created, *c)
	res.Created = append(res.Created, *c)
	return c
}

// Created returns every category materialized during this batch, in
// creation order. Parents always precede their children, so the slice can
// be persisted front to back.
func (b *Batch) Created() []Category {
	out := make([]Category, len(b.created))
	copy(out, b.created)
	return out
}

// CreatedCount returns the number of categories materialized so far.
func (b *Batch) CreatedCount() int {
	return len(b.created)
}

// Lookup returns the category with the given normalized name under the
// given parent (nil parent for top-level). Used by tests and diagnostics.
func (b *Batch) Lookup(parentID *uuid.UUID, name string) (Category, bool) {
	key := normalize.Key(name)
	if parentID == nil {
		if c, ok := b.topLevel[key]; ok {
			return *c, true
		}
		return Category{}, false
	}
	if c, ok := b.children[*parentID][key]; ok {
		return *c, true
	}
	return Category{}, false
}

// Path renders "Group > Name" for a leaf, or just the name for a top-level
// category. Handy for log output.
func (b *Batch) Path(c Category) string {
	if c.ParentID == nil {
		return c.Name
	}
	for _, p := range b.topLevel {
		if p.ID == *c.ParentID {
			return fmt.Sprintf("%s > %s", p.Name, c.Name)
		}
	}
	return c.Name
}
