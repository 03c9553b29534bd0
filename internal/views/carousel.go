package views

// Carousel tracks the active image of a product gallery
type Carousel struct {
	Images []string
	Index  int
}

// NewCarousel returns a carousel positioned at index, wrapped into range
func NewCarousel(images []string, index int) Carousel {
	return Carousel{
		Images: images,
		Index:  Step(0, index, len(images)),
	}
}

// Step moves index by direction positions around a ring of length items.
// An empty ring always yields 0.
func Step(index, direction, length int) int {
	if length <= 0 {
		return 0
	}
	return ((index+direction)%length + length) % length
}

// Current is the URL of the active image, or "" when there are none
func (c Carousel) Current() string {
	if len(c.Images) == 0 {
		return ""
	}
	return c.Images[c.Index]
}

func (c Carousel) Prev() int {
	return Step(c.Index, -1, len(c.Images))
}

func (c Carousel) Next() int {
	return Step(c.Index, 1, len(c.Images))
}

// HasControls reports whether prev/next navigation is shown
func (c Carousel) HasControls() bool {
	return len(c.Images) > 1
}
