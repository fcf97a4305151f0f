package controller

import (
	"context"
	"sync"
	"time"
)

// Carousel rotates through a fixed set of slides. Manual moves and the
// automatic timer share one index; whichever writes last wins.
type Carousel struct {
	mu       sync.Mutex
	index    int
	slides   []string
	onChange func(index int, slide string)
}

// NewCarousel returns a carousel positioned on the first slide. onChange may be nil.
func NewCarousel(slides []string, onChange func(index int, slide string)) *Carousel {
	return &Carousel{slides: append([]string(nil), slides...), onChange: onChange}
}

// Len returns the number of slides.
func (c *Carousel) Len() int { return len(c.slides) }

// Index returns the current slide index.
func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Slide returns the current slide, or "" without slides.
func (c *Carousel) Slide() string {
	_, slide := c.current()
	return slide
}

// current reads the index and its slide under one lock.
func (c *Carousel) current() (int, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.slides) == 0 {
		return c.index, ""
	}
	return c.index, c.slides[c.index]
}

// Next advances one slide, wrapping to the first.
func (c *Carousel) Next() int { return c.move(1) }

// Prev goes back one slide, wrapping to the last.
func (c *Carousel) Prev() int { return c.move(-1) }

// GoTo jumps to index i. Out-of-range indexes are ignored.
func (c *Carousel) GoTo(i int) bool {
	c.mu.Lock()
	if i < 0 || i >= len(c.slides) {
		c.mu.Unlock()
		return false
	}
	c.index = i
	slide := c.slides[i]
	c.mu.Unlock()
	c.notify(i, slide)
	return true
}

func (c *Carousel) move(delta int) int {
	c.mu.Lock()
	n := len(c.slides)
	if n == 0 {
		c.mu.Unlock()
		return 0
	}
	c.index = ((c.index+delta)%n + n) % n
	idx, slide := c.index, c.slides[c.index]
	c.mu.Unlock()
	c.notify(idx, slide)
	return idx
}

func (c *Carousel) notify(i int, slide string) {
	if c.onChange != nil {
		c.onChange(i, slide)
	}
}

// Run advances the carousel every interval until ctx is cancelled. Manual
// moves do not reset the timer.
func (c *Carousel) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 || c.Len() == 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Next()
		}
	}
}
