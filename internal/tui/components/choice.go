package components

import (
	"strings"

	"github.com/rgehrsitz/fuyou/internal/tui/tuistyles"
)

// Option is one selectable answer
type Option struct {
	Label string
	Value string
}

// ChoiceList is a vertical single-select list
type ChoiceList struct {
	Options []Option
	Cursor  int
}

// NewChoiceList creates a list with the cursor on the first option
func NewChoiceList(options ...Option) *ChoiceList {
	return &ChoiceList{Options: options}
}

// Up moves the cursor up, stopping at the first option
func (c *ChoiceList) Up() {
	if c.Cursor > 0 {
		c.Cursor--
	}
}

// Down moves the cursor down, stopping at the last option
func (c *ChoiceList) Down() {
	if c.Cursor < len(c.Options)-1 {
		c.Cursor++
	}
}

// Select moves the cursor to the option carrying value, if any
func (c *ChoiceList) Select(value string) {
	for i, o := range c.Options {
		if o.Value == value {
			c.Cursor = i
			return
		}
	}
}

// Selected returns the option under the cursor
func (c *ChoiceList) Selected() (Option, bool) {
	if c.Cursor < 0 || c.Cursor >= len(c.Options) {
		return Option{}, false
	}
	return c.Options[c.Cursor], true
}

// Render returns the styled list
func (c *ChoiceList) Render() string {
	var sb strings.Builder
	for i, o := range c.Options {
		if i == c.Cursor {
			sb.WriteString(tuistyles.SelectedItemStyle.Render("▸ " + o.Label))
		} else {
			sb.WriteString(tuistyles.UnselectedItemStyle.Render("  " + o.Label))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
