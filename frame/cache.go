package frame

import "image"

// Cache holds at most one previously generated surface for freeze mode.
type Cache struct {
	surface *image.RGBA
}

// Load returns the cached surface, if any.
func (c *Cache) Load() (*image.RGBA, bool) {
	return c.surface, c.surface != nil
}

// Store replaces the cached surface.
func (c *Cache) Store(s *image.RGBA) {
	c.surface = s
}

// Clear drops the cached surface.
func (c *Cache) Clear() {
	c.surface = nil
}

// Resolve returns the cached surface when frozen and one exists; otherwise it
// calls generate and caches the result. The bool reports a cache hit.
func (c *Cache) Resolve(frozen bool, generate func() (*image.RGBA, error)) (*image.RGBA, bool, error) {
	if frozen && c.surface != nil {
		return c.surface, true, nil
	}
	s, err := generate()
	if err != nil {
		return nil, false, err
	}
	c.surface = s
	return s, false, nil
}
