package visualize

import "sync"

// Panel holds the histogram currently shown in the control panel. A new
// render replaces the previous image wholesale.
type Panel struct {
	mu    sync.Mutex
	image []byte
	title string
}

// NewPanel returns an empty panel.
func NewPanel() *Panel {
	return &Panel{}
}

// Set replaces the displayed image.
func (p *Panel) Set(png []byte, title string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.image = png
	p.title = title
}

// Snapshot returns the current image and its title. ok is false before the
// first histogram is drawn.
func (p *Panel) Snapshot() (png []byte, title string, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.image, p.title, p.image != nil
}
