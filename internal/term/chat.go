package term

// Source - queue of lines to be shown.
type Source interface {
	// Drain - removes and returns every queued line, the oldest first.
	Drain() []string
}

var _ Component = (*Chat)(nil)

// Chat - scrollback viewer, newest line is shown at the bottom.
type Chat struct {
	screen Screen
	view   Viewport
	// log - lines in arrival order, the newest is the last
	log []string
	// scroll - number of newest lines hidden below the view
	scroll int
}

// NewChat - builds empty viewer.
func NewChat(screen Screen) *Chat {
	return &Chat{screen: screen, log: []string{}}
}

// Len - returns number of lines in the log.
func (c *Chat) Len() int {
	return len(c.log)
}

// Scroll - returns current scroll offset.
func (c *Chat) Scroll() int {
	return c.scroll
}

// Push - adds the newest line, keeping the view in place if it is scrolled.
func (c *Chat) Push(line string) {
	c.log = append(c.log, line)
	if c.scroll > 0 {
		c.scroll++
	}
}

// ScrollUp - reveals one older line.
func (c *Chat) ScrollUp() {
	if c.scroll < len(c.log) {
		c.scroll++
	}
}

// ScrollDown - reveals one newer line.
func (c *Chat) ScrollDown() {
	if c.scroll > 0 {
		c.scroll--
	}
}

// Drain - moves every queued line into the log and redraws if anything was moved.
func (c *Chat) Drain(src Source) bool {
	lines := src.Drain()
	for _, line := range lines {
		c.Push(line)
	}
	if len(lines) == 0 {
		return false
	}
	c.Redraw()
	return true
}

// Visible - returns lines in the view, the newest first.
func (c *Chat) Visible() []string {
	visible := make([]string, 0, c.view.Height)
	for i := len(c.log) - 1 - c.scroll; i >= 0 && len(visible) < c.view.Height; i-- {
		visible = append(visible, c.log[i])
	}
	return visible
}

func (c *Chat) Resize(v Viewport) {
	c.view = v
}

func (c *Chat) Redraw() {
	v := c.view
	if v.Width <= 0 || v.Height <= 0 {
		return
	}
	visible := c.Visible()
	for row := 0; row < v.Height; row++ {
		text := ""
		if i := v.Height - 1 - row; i < len(visible) {
			text = fit(visible[i], v.Width)
		}
		c.screen.DrawText(v.X, v.Y+row, v.Width, text)
	}
}

func (c *Chat) HandleKey(k Key) bool {
	switch k {
	case KeyUp, KeyCtrlP:
		c.ScrollUp()
	case KeyDown, KeyCtrlN:
		c.ScrollDown()
	default:
		return false
	}
	c.Redraw()
	return true
}
