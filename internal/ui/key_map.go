package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the editor TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	moveUp   key.Binding
	moveDown key.Binding
	enter    key.Binding
	back     key.Binding
	add      key.Binding
	remove   key.Binding
	annotate key.Binding
	title    key.Binding
	intro    key.Binding
	public   key.Binding
	undo     key.Binding
	redo     key.Binding
	claim    key.Binding
	export   key.Binding
	share    key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		moveUp:   key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("K", "move track up")),
		moveDown: key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("J", "move track down")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add track")),
		remove:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove track")),
		annotate: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "annotate")),
		title:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "title")),
		intro:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "intro")),
		public:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "toggle public")),
		undo:     key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "undo")),
		redo:     key.NewBinding(key.WithKeys("Z"), key.WithHelp("Z", "redo")),
		claim:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "claim")),
		export:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "export to Spotify")),
		share:    key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "copy share link")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.add, k.undo, k.redo, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.moveUp, k.moveDown},
		{k.add, k.remove, k.annotate},
		{k.title, k.intro, k.public},
		{k.undo, k.redo, k.claim, k.export, k.share, k.quit},
	}
}
