package deck

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// Base marks a chunk that is always visible.
const Base = -1

var stepMarker = regexp.MustCompile(`^\s*<!--\s*(step|pause)\s*-->\s*$`)

// Meta is the optional YAML front matter of a slide.
type Meta struct {
	Title       string `yaml:"title"`
	Incremental bool   `yaml:"incremental"`
}

// Chunk is a contiguous piece of slide markdown. Step is the index of the
// step item it belongs to, or Base.
type Chunk struct {
	Step int
	Text string
}

// Slide is one parsed slide file.
type Slide struct {
	Name   string
	Title  string
	Meta   Meta
	Chunks []Chunk
	Steps  int
}

// Render returns the markdown for the slide with only the step items whose
// revealed flag is set. Missing flags count as hidden.
func (s Slide) Render(revealed []bool) string {
	var b strings.Builder
	for _, c := range s.Chunks {
		if c.Step != Base && (c.Step >= len(revealed) || !revealed[c.Step]) {
			continue
		}
		b.WriteString(c.Text)
	}
	return b.String()
}

// Source returns the full slide markdown with every step visible and the
// step markers removed.
func (s Slide) Source() string {
	var b strings.Builder
	for _, c := range s.Chunks {
		b.WriteString(c.Text)
	}
	return b.String()
}

// ParseOptions control how step items are recognized.
type ParseOptions struct {
	// IncrementalLists turns every top-level list item into a step on every
	// slide, as if each slide set incremental: true.
	IncrementalLists bool
}

// Parse splits the markdown of a single slide into chunks.
func Parse(name string, src []byte, opts ParseOptions) (Slide, error) {
	meta, body, err := splitFrontMatter(src)
	if err != nil {
		return Slide{}, fmt.Errorf("front matter in %s: %w", name, err)
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(body))
	ix := newLineIndex(body)
	incremental := opts.IncrementalLists || meta.Incremental

	var cuts []cut
	inStep := false
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.HTMLBlock:
			if !isStepMarker(node, body) {
				continue
			}
			start, end := -1, -1
			if segs := node.Lines(); segs.Len() > 0 {
				start = ix.lineOf(segs.At(0).Start)
				end = ix.lineOf(segs.At(segs.Len() - 1).Start)
			}
			if node.HasClosure() {
				end = ix.lineOf(node.ClosureLine.Start)
				if start < 0 {
					start = end
				}
			}
			if start < 0 {
				continue
			}
			cuts = append(cuts, cut{kind: cutMarker, start: start, end: end})
			inStep = true
		case *ast.List:
			if !incremental || inStep {
				continue
			}
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				if ln := firstLine(item, ix); ln >= 0 {
					cuts = append(cuts, cut{kind: cutItem, start: ln})
				}
			}
			if node.NextSibling() != nil {
				if ln := lastLine(node, ix); ln >= 0 {
					cuts = append(cuts, cut{kind: cutBase, start: ln + 1})
				}
			}
		}
	}

	slide := Slide{Name: name, Meta: meta, Title: meta.Title}
	if slide.Title == "" {
		slide.Title = firstHeading(doc, body)
	}
	slide.Chunks, slide.Steps = buildChunks(ix, cuts)
	return slide, nil
}

type cutKind int

const (
	cutMarker cutKind = iota
	cutItem
	cutBase
)

// cut is a boundary expressed in line numbers. Marker cuts cover the lines
// start..end, which are dropped from the output.
type cut struct {
	kind       cutKind
	start, end int
}

func buildChunks(ix lineIndex, cuts []cut) ([]Chunk, int) {
	sort.SliceStable(cuts, func(i, j int) bool { return cuts[i].start < cuts[j].start })

	var chunks []Chunk
	emit := func(owner, from, to int) {
		if from >= to {
			return
		}
		t := ix.slice(from, to)
		if len(chunks) > 0 && chunks[len(chunks)-1].Step == owner {
			chunks[len(chunks)-1].Text += t
			return
		}
		chunks = append(chunks, Chunk{Step: owner, Text: t})
	}

	owner, cursor, steps := Base, 0, 0
	for _, c := range cuts {
		if c.start < cursor {
			continue
		}
		emit(owner, cursor, c.start)
		switch c.kind {
		case cutMarker:
			owner = steps
			steps++
			cursor = c.end + 1
		case cutItem:
			owner = steps
			steps++
			cursor = c.start
		case cutBase:
			owner = Base
			cursor = c.start
		}
	}
	emit(owner, cursor, ix.lines())
	return compact(chunks, steps)
}

// compact drops steps that hold only whitespace, such as a marker at the end
// of a slide or two markers in a row. Their text becomes base text and the
// remaining steps are renumbered.
func compact(chunks []Chunk, steps int) ([]Chunk, int) {
	renumber := make([]int, steps)
	for i := range renumber {
		renumber[i] = Base
	}
	for _, c := range chunks {
		if c.Step != Base && strings.TrimSpace(c.Text) != "" {
			renumber[c.Step] = 0
		}
	}
	n := 0
	for i, r := range renumber {
		if r != Base {
			renumber[i] = n
			n++
		}
	}

	var out []Chunk
	for _, c := range chunks {
		if c.Step != Base {
			c.Step = renumber[c.Step]
		}
		if len(out) > 0 && out[len(out)-1].Step == c.Step {
			out[len(out)-1].Text += c.Text
			continue
		}
		out = append(out, c)
	}
	return out, n
}

func isStepMarker(n *ast.HTMLBlock, src []byte) bool {
	var b bytes.Buffer
	segs := n.Lines()
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		b.Write(seg.Value(src))
	}
	if n.HasClosure() {
		b.Write(n.ClosureLine.Value(src))
	}
	return stepMarker.Match(bytes.TrimSpace(b.Bytes()))
}

// firstLine returns the line where a block starts, or -1 when the block
// carries no source position.
func firstLine(n ast.Node, ix lineIndex) int {
	if n.Type() != ast.TypeBlock {
		return -1
	}
	if fc, ok := n.(*ast.FencedCodeBlock); ok {
		if fc.Info != nil {
			return ix.lineOf(fc.Info.Segment.Start)
		}
		if fc.Lines().Len() > 0 {
			return ix.lineOf(fc.Lines().At(0).Start) - 1
		}
		return -1
	}
	if lines := n.Lines(); lines != nil && lines.Len() > 0 {
		return ix.lineOf(lines.At(0).Start)
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if ln := firstLine(c, ix); ln >= 0 {
			return ln
		}
	}
	return -1
}

// lastLine returns the last line a block occupies, or -1 when neither it
// nor its descendants carry a source position. A closing code fence counts
// as part of its block.
func lastLine(n ast.Node, ix lineIndex) int {
	if n.Type() != ast.TypeBlock {
		return -1
	}
	last := -1
	if lines := n.Lines(); lines != nil && lines.Len() > 0 {
		last = ix.lineOf(lines.At(lines.Len() - 1).Start)
	}
	switch node := n.(type) {
	case *ast.FencedCodeBlock:
		if ln := firstLine(node, ix); ln > last {
			last = ln
		}
		if last >= 0 && isFence(ix.slice(last+1, last+2)) {
			last++
		}
	case *ast.HTMLBlock:
		if node.HasClosure() {
			if ln := ix.lineOf(node.ClosureLine.Start); ln > last {
				last = ln
			}
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if ln := lastLine(c, ix); ln > last {
			last = ln
		}
	}
	return last
}

func isFence(line string) bool {
	l := strings.TrimSpace(line)
	return strings.HasPrefix(l, "```") || strings.HasPrefix(l, "~~~")
}

func firstHeading(doc ast.Node, src []byte) string {
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		var b strings.Builder
		lines := h.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			b.Write(seg.Value(src))
		}
		return strings.TrimSpace(b.String())
	}
	return ""
}

func splitFrontMatter(src []byte) (Meta, []byte, error) {
	var meta Meta
	rest, ok := bytes.CutPrefix(src, []byte("---\n"))
	if !ok {
		rest, ok = bytes.CutPrefix(src, []byte("---\r\n"))
	}
	if !ok {
		return meta, src, nil
	}

	offset := 0
	for offset < len(rest) {
		end := bytes.IndexByte(rest[offset:], '\n')
		var line []byte
		next := len(rest)
		if end >= 0 {
			line = rest[offset : offset+end]
			next = offset + end + 1
		} else {
			line = rest[offset:]
		}
		if l := strings.TrimRight(string(line), "\r"); l == "---" || l == "..." {
			if err := yaml.Unmarshal(rest[:offset], &meta); err != nil {
				return Meta{}, nil, err
			}
			return meta, rest[next:], nil
		}
		offset = next
	}
	// no closing delimiter: not front matter
	return meta, src, nil
}

// lineIndex maps byte offsets of a source buffer to line numbers.
type lineIndex struct {
	src    []byte
	starts []int
}

func newLineIndex(src []byte) lineIndex {
	starts := []int{0}
	for i, c := range src {
		if c == '\n' && i+1 < len(src) {
			starts = append(starts, i+1)
		}
	}
	return lineIndex{src: src, starts: starts}
}

func (ix lineIndex) lines() int {
	if len(ix.src) == 0 {
		return 0
	}
	return len(ix.starts)
}

func (ix lineIndex) lineOf(offset int) int {
	return sort.Search(len(ix.starts), func(i int) bool { return ix.starts[i] > offset }) - 1
}

// slice returns the text of lines from..to-1, newlines included.
func (ix lineIndex) slice(from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > ix.lines() {
		to = ix.lines()
	}
	if from >= to {
		return ""
	}
	end := len(ix.src)
	if to < len(ix.starts) {
		end = ix.starts[to]
	}
	return string(ix.src[ix.starts[from]:end])
}
