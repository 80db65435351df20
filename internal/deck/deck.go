// Package deck loads a slide deck from a directory of markdown files and
// splits every slide into always-visible text and step items.
//
// Slides are the *.md files not starting with an underscore, in natural
// order. An optional _title.md holds the deck title. Inside a slide, a
// standalone <!-- step --> (or <!-- pause -->) comment starts a new step, and
// with incremental lists enabled every top-level list item is a step. A
// marker followed by nothing but whitespace does not start a step.
package deck

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// TitleFile is the name of the optional deck title file.
const TitleFile = "_title.md"

// ErrEmptyDeck is returned when a directory holds no slide files.
var ErrEmptyDeck = errors.New("deck: no slides found")

// Deck is immutable once loaded.
type Deck struct {
	Title  string
	Slides []Slide
}

// Len returns the number of slides.
func (d *Deck) Len() int { return len(d.Slides) }

// StepCounts returns the step count of every slide, in order.
func (d *Deck) StepCounts() []int {
	out := make([]int, len(d.Slides))
	for i, s := range d.Slides {
		out[i] = s.Steps
	}
	return out
}

// Load reads the deck stored in dir.
func Load(dir string, opts ParseOptions) (*Deck, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("read slides dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("read slides dir: %s is not a directory", dir)
	}
	return LoadFS(os.DirFS(dir), opts)
}

// LoadFS reads a deck from the root of fsys.
func LoadFS(fsys fs.FS, opts ParseOptions) (*Deck, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read slides dir: %w", err)
	}

	d := &Deck{}
	if title, err := fs.ReadFile(fsys, TitleFile); err == nil {
		d.Title = strings.TrimSpace(string(title))
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", TitleFile, err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || path.Ext(name) != ".md" || strings.HasPrefix(name, "_") {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, ErrEmptyDeck
	}
	sort.Sort(natural.StringSlice(names))

	for _, name := range names {
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read slide %s: %w", name, err)
		}
		slide, err := Parse(name, src, opts)
		if err != nil {
			return nil, err
		}
		d.Slides = append(d.Slides, slide)
	}
	return d, nil
}
