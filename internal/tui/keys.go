package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Advance   key.Binding
	Retreat   key.Binding
	PrevSlide key.Binding
	NextSlide key.Binding
	First     key.Binding
	Last      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Advance:   key.NewBinding(key.WithKeys("right", " ", "l"), key.WithHelp("→/space", "next step")),
		Retreat:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "previous step")),
		PrevSlide: key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "previous slide")),
		NextSlide: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "next slide")),
		First:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home", "first slide")),
		Last:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end", "last slide")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Advance, k.Retreat, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Advance, k.Retreat},
		{k.PrevSlide, k.NextSlide},
		{k.First, k.Last},
		{k.Help, k.Quit},
	}
}
