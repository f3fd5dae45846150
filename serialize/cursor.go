package serialize

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// Cursor is a tree of named, offset-tracked regions over one backing byte
// slice; Region and Following carve child regions out of it (Read in this
// package reads the whole container body through a single root cursor). It
// exists so a malformed
// container's overlap/overgrow bugs show up as a readable tree dump instead
// of a panic with no context.
type Cursor struct {
	parent         *Cursor
	children       []*Cursor
	buf            []byte
	relativeOffset int
	absoluteOffset int
	size           int
	pos            int
	name           string
}

// NewCursor wraps b as the root region.
func NewCursor(name string, b []byte) *Cursor {
	return &Cursor{buf: b, size: len(b), name: name}
}

func (c *Cursor) addChild(child *Cursor) {
	index := sort.Search(len(c.children), func(i int) bool {
		return c.children[i].relativeOffset > child.relativeOffset
	})
	c.children = append(c.children, nil)
	copy(c.children[index+1:], c.children[index:])
	c.children[index] = child
}

// Region carves out a named sub-region starting at offset within c,
// running to the end of c's backing buffer; call SetSize to bound it.
func (c *Cursor) Region(name string, offset int) *Cursor {
	child := &Cursor{
		parent:         c,
		relativeOffset: offset,
		absoluteOffset: c.absoluteOffset + offset,
		name:           name,
		buf:            c.buf[offset:],
	}
	c.addChild(child)
	return child
}

// Following carves a region immediately after c ends, in c's parent.
func (c *Cursor) Following(name string) *Cursor {
	if c.size == 0 {
		panic(fmt.Sprintf("cursor %v has size 0, can't anchor a following region", c))
	}
	return c.parent.Region(name, c.relativeOffset+c.size)
}

func (c *Cursor) SetSize(size int) *Cursor {
	c.size = size
	return c
}

func (c *Cursor) Size() int { return c.size }

func (c *Cursor) String() string {
	return fmt.Sprintf("region<%s>[off:0x%x size:0x%x abs:0x%x-0x%x]",
		c.name, c.relativeOffset, c.size, c.absoluteOffset, c.absoluteOffset+c.size)
}

func (c *Cursor) StringTree(depth int) string {
	pad := ""
	for i := 0; i < depth; i++ {
		pad += "  "
	}
	s := pad + c.String() + "\n"
	for _, child := range c.children {
		s += child.StringTree(depth + 1)
	}
	return s
}

func (c *Cursor) Pos() int { return c.pos }

// Read returns the next amount bytes and advances pos.
func (c *Cursor) Read(amount int) []byte {
	old := c.pos
	c.pos += amount
	if c.size != 0 && c.pos > c.size {
		panic(fmt.Sprintf("read past end of %v", c))
	}
	return c.buf[old:c.pos]
}

func (c *Cursor) Skip(amount int) { c.Read(amount) }

func (c *Cursor) ReadU64() uint64 { return binary.LittleEndian.Uint64(c.Read(8)) }
func (c *Cursor) ReadU32() uint32 { return binary.LittleEndian.Uint32(c.Read(4)) }
func (c *Cursor) ReadU16() uint16 { return binary.LittleEndian.Uint16(c.Read(2)) }
func (c *Cursor) ReadByte() byte  { return c.Read(1)[0] }

// Raw returns the region's backing bytes, bounded to Size if set.
func (c *Cursor) Raw() []byte {
	if c.size == 0 {
		return c.buf
	}
	return c.buf[:c.size]
}
