package markdown

import (
	"fmt"
	"regexp"
	"strings"
)

// HTML serializes blocks for clients that do not render blocks themselves.
func HTML(blocks []Block) string {
	var b strings.Builder
	for _, blk := range blocks {
		switch blk.Type {
		case BlockH2:
			b.WriteString("<h2>" + blk.Text + "</h2>\n")
		case BlockH3:
			b.WriteString("<h3>" + blk.Text + "</h3>\n")
		case BlockList:
			b.WriteString("<ul>\n")
			for _, it := range blk.Items {
				b.WriteString("<li>" + it + "</li>\n")
			}
			b.WriteString("</ul>\n")
		case BlockParagraph:
			var classes []string
			if blk.Callout {
				classes = append(classes, "callout")
			}
			if blk.Lead {
				classes = append(classes, "lead")
			}
			if len(classes) > 0 {
				b.WriteString(`<p class="` + strings.Join(classes, " ") + `">` + blk.Text + "</p>\n")
			} else {
				b.WriteString("<p>" + blk.Text + "</p>\n")
			}
		}
	}
	return b.String()
}

var tagPattern = regexp.MustCompile(`</?(?:strong|em)>`)

var unescaper = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&")

// StripInline turns inline-formatted block text back into plain text.
func StripInline(s string) string {
	return unescaper.Replace(tagPattern.ReplaceAllString(s, ""))
}

// Texts returns the plain text of every block in order, one entry per
// heading, paragraph, or list item.
func Texts(blocks []Block) []string {
	out := make([]string, 0, len(blocks))
	for _, blk := range blocks {
		if blk.Type == BlockList {
			for _, it := range blk.Items {
				out = append(out, StripInline(it))
			}
			continue
		}
		out = append(out, StripInline(blk.Text))
	}
	return out
}

// PlainText renders src and joins its block texts with blank lines.
func PlainText(src string) string {
	return strings.Join(Texts(Render(src)), "\n\n")
}

func WordCount(src string) int {
	return len(strings.Fields(PlainText(src)))
}

const wordsPerMinute = 200

// ReadTime estimates reading time at 200 words per minute, never below one.
func ReadTime(src string) string {
	words := WordCount(src)
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

// FirstParagraph returns the plain text of the first paragraph block.
func FirstParagraph(blocks []Block) string {
	for _, blk := range blocks {
		if blk.Type == BlockParagraph {
			return StripInline(blk.Text)
		}
	}
	return ""
}
