// Package cache memoizes resolver output per element, keyed on the inputs
// that decide it: available size and style version.
package cache

// Entry is one element's last resolution.
type Entry struct {
	availWidth  float32
	availHeight float32
	version     uint64
	width       float32
	height      float32
	valid       bool
}

// IsValid reports whether the entry was produced for exactly these inputs.
func (e *Entry) IsValid(width, height float32, version uint64) bool {
	return e.valid &&
		e.availWidth == width &&
		e.availHeight == height &&
		e.version == version
}

// Update records a resolution.
func (e *Entry) Update(width, height float32, version uint64, resolvedWidth, resolvedHeight float32) {
	*e = Entry{
		availWidth:  width,
		availHeight: height,
		version:     version,
		width:       resolvedWidth,
		height:      resolvedHeight,
		valid:       true,
	}
}

// Invalidate forces the next lookup to miss.
func (e *Entry) Invalidate() {
	e.valid = false
}

// Size returns the recorded resolved size.
func (e *Entry) Size() (width, height float32) {
	return e.width, e.height
}

// Stats counts lookups.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// Cache holds one Entry per element id.
type Cache struct {
	entries []Entry
	stats   Stats
}

// New creates a cache sized for capacity elements; it grows on demand.
func New(capacity int) *Cache {
	return &Cache{entries: make([]Entry, capacity)}
}

// Lookup returns the cached size for id if its entry matches the inputs and
// counts the outcome.
func (c *Cache) Lookup(id uint32, width, height float32, version uint64) (float32, float32, bool) {
	if int(id) < len(c.entries) && c.entries[id].IsValid(width, height, version) {
		c.stats.Hits++
		w, h := c.entries[id].Size()
		return w, h, true
	}
	c.stats.Misses++
	return 0, 0, false
}

// Update records a resolution for id.
func (c *Cache) Update(id uint32, width, height float32, version uint64, resolvedWidth, resolvedHeight float32) {
	if int(id) >= len(c.entries) {
		c.entries = append(c.entries, make([]Entry, int(id)+1-len(c.entries))...)
	}
	c.entries[id].Update(width, height, version, resolvedWidth, resolvedHeight)
}

// Invalidate drops the entry for id.
func (c *Cache) Invalidate(id uint32) {
	if int(id) < len(c.entries) {
		c.entries[id].Invalidate()
	}
}

// Stats returns the hit and miss counters.
func (c *Cache) Stats() Stats { return c.stats }
