package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up        key.Binding
	down      key.Binding
	left      key.Binding
	right     key.Binding
	enter     key.Binding
	esc       key.Binding
	tab       key.Binding
	quit      key.Binding
	version   key.Binding
	edit      key.Binding
	add       key.Binding
	delete    key.Binding
	moveUp    key.Binding
	moveDown  key.Binding
	check     key.Binding
	like      key.Binding
	remove    key.Binding
	clear     key.Binding
	copy      key.Binding
	yes       key.Binding
	no        key.Binding
	forceQuit key.Binding
}

var keys = keyMap{
	up:        key.NewBinding(key.WithKeys("up", "k")),
	down:      key.NewBinding(key.WithKeys("down", "j")),
	left:      key.NewBinding(key.WithKeys("left", "h")),
	right:     key.NewBinding(key.WithKeys("right", "l")),
	enter:     key.NewBinding(key.WithKeys("enter")),
	esc:       key.NewBinding(key.WithKeys("esc")),
	tab:       key.NewBinding(key.WithKeys("tab")),
	quit:      key.NewBinding(key.WithKeys("q")),
	version:   key.NewBinding(key.WithKeys("v")),
	edit:      key.NewBinding(key.WithKeys("e")),
	add:       key.NewBinding(key.WithKeys("a")),
	delete:    key.NewBinding(key.WithKeys("d")),
	moveUp:    key.NewBinding(key.WithKeys("K")),
	moveDown:  key.NewBinding(key.WithKeys("J")),
	check:     key.NewBinding(key.WithKeys("x")),
	like:      key.NewBinding(key.WithKeys("+")),
	remove:    key.NewBinding(key.WithKeys("D")),
	clear:     key.NewBinding(key.WithKeys("C")),
	copy:      key.NewBinding(key.WithKeys("c")),
	yes:       key.NewBinding(key.WithKeys("y")),
	no:        key.NewBinding(key.WithKeys("n", "esc")),
	forceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
}
