// Package markdown renders the restricted markdown dialect used for blog
// post bodies into typed blocks.
//
// Recognized line markers, after trimming surrounding whitespace:
//
//	# Title     dropped; pages show the stored title instead
//	## Heading  level 2 heading
//	### Heading level 3 heading
//	- item      list item; consecutive items form one list
//	(blank)     ends the current paragraph
//
// Any other line is paragraph text; lines of one paragraph are joined with a
// single space. Inline **bold** and *italic* spans become <strong> and <em>.
package markdown

import (
	"regexp"
	"strings"
)

type BlockType string

const (
	BlockH2        BlockType = "h2"
	BlockH3        BlockType = "h3"
	BlockParagraph BlockType = "paragraph"
	BlockList      BlockType = "list"
)

// Block is one rendered unit. Text and Items carry inline-formatted HTML.
// Callout and Lead are presentation hints for paragraphs only.
type Block struct {
	Type    BlockType `json:"type"`
	Text    string    `json:"text,omitempty"`
	Items   []string  `json:"items,omitempty"`
	Callout bool      `json:"callout,omitempty"`
	Lead    bool      `json:"lead,omitempty"`
}

const (
	titlePrefix    = "# "
	h2Prefix       = "## "
	h3Prefix       = "### "
	listItemPrefix = "- "
)

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Render classifies src line by line and returns blocks in source order.
func Render(src string) []Block {
	r := renderer{blocks: make([]Block, 0)}

	for _, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)

		if strings.HasPrefix(line, listItemPrefix) {
			if !r.inList {
				r.flushParagraph()
				r.inList = true
			}
			r.items = append(r.items, strings.TrimSpace(line[len(listItemPrefix):]))
			continue
		}

		if r.inList {
			r.flushList()
		}

		switch {
		case strings.HasPrefix(line, titlePrefix):
			// Dropped without ending the paragraph around it.
		case strings.HasPrefix(line, h2Prefix):
			r.flushParagraph()
			r.heading(BlockH2, line[len(h2Prefix):])
		case strings.HasPrefix(line, h3Prefix):
			r.flushParagraph()
			r.heading(BlockH3, line[len(h3Prefix):])
		case line == "":
			r.flushParagraph()
		default:
			r.paragraph = append(r.paragraph, line)
		}
	}

	r.flushList()
	r.flushParagraph()
	return r.blocks
}

type renderer struct {
	blocks    []Block
	paragraph []string
	items     []string
	inList    bool
}

func (r *renderer) heading(t BlockType, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	r.blocks = append(r.blocks, Block{Type: t, Text: Inline(escaper.Replace(text))})
}

func (r *renderer) flushList() {
	r.inList = false
	if len(r.items) == 0 {
		return
	}
	items := make([]string, 0, len(r.items))
	for _, it := range r.items {
		items = append(items, Inline(escaper.Replace(it)))
	}
	r.blocks = append(r.blocks, Block{Type: BlockList, Items: items})
	r.items = nil
}

func (r *renderer) flushParagraph() {
	if len(r.paragraph) == 0 {
		return
	}
	text := strings.TrimSpace(strings.Join(r.paragraph, " "))
	r.paragraph = nil
	if text == "" {
		return
	}
	r.blocks = append(r.blocks, Block{
		Type:    BlockParagraph,
		Text:    Inline(escaper.Replace(text)),
		Callout: IsCallout(text),
		Lead:    IsLeadEmphasis(text),
	})
}

// Markers never span an HTML tag, so a second pass over rendered output
// finds nothing left to substitute.
var (
	boldPattern   = regexp.MustCompile(`\*\*([^<]+?)\*\*`)
	italicPattern = regexp.MustCompile(`\*([^*<]+)\*`)
)

// Inline replaces **bold** then *italic* spans, non-overlapping and left to
// right. Input is expected to be HTML-escaped already.
func Inline(text string) string {
	text = boldPattern.ReplaceAllString(text, "<strong>$1</strong>")
	return italicPattern.ReplaceAllString(text, "<em>$1</em>")
}

var (
	bigNumberPattern = regexp.MustCompile(`\d{3,}`)
	pctRangePattern  = regexp.MustCompile(`\d+(?:\.\d+)?\s*%?\s*(?:-|–|to)\s*\d+(?:\.\d+)?\s*%`)
)

// IsCallout flags results-style paragraphs: "Results" with a % or $ sign, a
// number of three or more digits, or a percentage range such as 20-35%.
func IsCallout(text string) bool {
	if strings.Contains(text, "Results") && strings.ContainsAny(text, "%$") {
		return true
	}
	return bigNumberPattern.MatchString(text) || pctRangePattern.MatchString(text)
}

// IsLeadEmphasis reports whether the whole paragraph is one **bold** span.
func IsLeadEmphasis(text string) bool {
	text = strings.TrimSpace(text)
	if len(text) <= 4 || !strings.HasPrefix(text, "**") || !strings.HasSuffix(text, "**") {
		return false
	}
	inner := text[2 : len(text)-2]
	return strings.TrimSpace(inner) != "" && !strings.Contains(inner, "**")
}
