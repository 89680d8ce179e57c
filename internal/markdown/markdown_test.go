package markdown

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWorkedExample(t *testing.T) {
	got := Render("## Why it works\nThis **really** helps.\n\n- Point one\n- Point two\n")
	want := []Block{
		{Type: BlockH2, Text: "Why it works"},
		{Type: BlockParagraph, Text: "This <strong>really</strong> helps."},
		{Type: BlockList, Items: []string{"Point one", "Point two"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Render mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderTitleOnly(t *testing.T) {
	assert.Empty(t, Render("# Title"))
	assert.Empty(t, Render("\n\n# Title\n\n"))
}

func TestRenderTitleDropped(t *testing.T) {
	got := Render("# Ignored Title\nBody text here.")
	want := []Block{{Type: BlockParagraph, Text: "Body text here."}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestRenderTitleInsideParagraph(t *testing.T) {
	got := Render("A\n# T\nB")
	want := []Block{{Type: BlockParagraph, Text: "A B"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestRenderHeadingLevels(t *testing.T) {
	got := Render("## Two\n### Three")
	want := []Block{{Type: BlockH2, Text: "Two"}, {Type: BlockH3, Text: "Three"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestRenderListTerminatedWithoutBlankLine(t *testing.T) {
	got := Render("- a\n- b\nAfter the list.")
	want := []Block{
		{Type: BlockList, Items: []string{"a", "b"}},
		{Type: BlockParagraph, Text: "After the list."},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestRenderParagraphBeforeListIsFlushed(t *testing.T) {
	got := Render("Intro line\n- item")
	want := []Block{
		{Type: BlockParagraph, Text: "Intro line"},
		{Type: BlockList, Items: []string{"item"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestRenderJoinsParagraphLines(t *testing.T) {
	got := Render("  first line  \nsecond line\n")
	require.Len(t, got, 1)
	assert.Equal(t, "first line second line", got[0].Text)
}

func TestRenderBlankLineSplitsParagraphs(t *testing.T) {
	got := Render("one\n\ntwo")
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0].Text)
	assert.Equal(t, "two", got[1].Text)
}

func TestRenderLeadingTrailingBlanks(t *testing.T) {
	got := Render("\n\n   \nonly\n\n\n")
	require.Len(t, got, 1)
	assert.Equal(t, BlockParagraph, got[0].Type)
}

func TestRenderHeadingFlushesParagraph(t *testing.T) {
	got := Render("before\n## Head\nafter")
	require.Len(t, got, 3)
	assert.Equal(t, []BlockType{BlockParagraph, BlockH2, BlockParagraph},
		[]BlockType{got[0].Type, got[1].Type, got[2].Type})
}

func TestRenderEscapesHTML(t *testing.T) {
	got := Render("a <script> & b")
	require.Len(t, got, 1)
	assert.Equal(t, "a &lt;script&gt; &amp; b", got[0].Text)
}

func TestRenderCRLF(t *testing.T) {
	got := Render("## Head\r\nbody\r\n")
	require.Len(t, got, 2)
	assert.Equal(t, "Head", got[0].Text)
	assert.Equal(t, "body", got[1].Text)
}

func TestInline(t *testing.T) {
	cases := map[string]string{
		"plain":                     "plain",
		"**bold**":                  "<strong>bold</strong>",
		"*it*":                      "<em>it</em>",
		"**a** and **b**":           "<strong>a</strong> and <strong>b</strong>",
		"mix **b** and *i* end":     "mix <strong>b</strong> and <em>i</em> end",
		"unclosed **bold":           "unclosed **bold",
		"**bold with *italic* in**": "<strong>bold with <em>italic</em> in</strong>",
	}
	for in, want := range cases {
		assert.Equal(t, want, Inline(in), in)
	}
}

func TestInlineIdempotent(t *testing.T) {
	inputs := []string{
		"This **really** helps.",
		"a **b* c*",
		"***a***",
		"*x**y*z*",
		"**a **b** c**",
		"5 * 3 * 2",
		"**unclosed *and* more",
	}
	for _, in := range inputs {
		once := Inline(in)
		assert.Equal(t, once, Inline(once), in)
	}
}

func TestCalloutAndLead(t *testing.T) {
	assert.True(t, IsCallout("Results: revenue up 40%"))
	assert.True(t, IsCallout("Results came in at $2M"))
	assert.True(t, IsCallout("We staffed 1200 events"))
	assert.True(t, IsCallout("Engagement rose 20-35%"))
	assert.False(t, IsCallout("Results were great"))
	assert.False(t, IsCallout("We ran 12 events"))

	assert.True(t, IsLeadEmphasis("**The whole thing is bold.**"))
	assert.False(t, IsLeadEmphasis("**a** and **b**"))
	assert.False(t, IsLeadEmphasis("****"))
	assert.False(t, IsLeadEmphasis("not **bold**"))

	blocks := Render("**Lead paragraph here.**\n\nResults: 45% lift.")
	require.Len(t, blocks, 2)
	assert.True(t, blocks[0].Lead)
	assert.True(t, blocks[1].Callout)
}

func TestHTML(t *testing.T) {
	blocks := Render("## Title\n**Lead.**\n\n- one\n- two\n\nResults: 30% more.")
	got := HTML(blocks)
	assert.Equal(t, "<h2>Title</h2>\n<p class=\"lead\"><strong>Lead.</strong></p>\n<ul>\n<li>one</li>\n<li>two</li>\n</ul>\n<p class=\"callout\">Results: 30% more.</p>\n", got)
}

func TestPlainTextAndReadTime(t *testing.T) {
	src := "# T\n## Head\nSome **bold** &amp text.\n\n- x"
	assert.Equal(t, "Head\n\nSome bold &amp text.\n\nx", PlainText(src))
	assert.Equal(t, 6, WordCount(src))
	assert.Equal(t, "1 min read", ReadTime(src))

	long := strings.Repeat("word ", 401)
	assert.Equal(t, "3 min read", ReadTime(long))
	assert.Equal(t, "1 min read", ReadTime(""))
}

func TestFirstParagraph(t *testing.T) {
	assert.Equal(t, "First body.", FirstParagraph(Render("## H\nFirst **body**.\n\nSecond.")))
	assert.Equal(t, "", FirstParagraph(Render("## only heading")))
}

// Every non-marker, non-blank line appears in the output exactly once and in
// source order.
func TestRenderPreservesLineContent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 200; iter++ {
		var lines, expected []string
		var paragraph []string
		flush := func() {
			if len(paragraph) > 0 {
				expected = append(expected, strings.Join(paragraph, " "))
				paragraph = nil
			}
		}
		for i := 0; i < 12; i++ {
			word := fmt.Sprintf("w%d_%d", iter, i)
			switch rng.Intn(5) {
			case 0:
				lines = append(lines, "")
				flush()
			case 1:
				lines = append(lines, "- "+word)
				flush()
				expected = append(expected, word)
			case 2:
				lines = append(lines, "## "+word)
				flush()
				expected = append(expected, word)
			case 3:
				lines = append(lines, "# "+word)
			default:
				lines = append(lines, word)
				paragraph = append(paragraph, word)
			}
		}
		flush()

		got := Texts(Render(strings.Join(lines, "\n")))
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Fatalf("iteration %d (-want +got):\n%s\ninput:\n%s", iter, diff, strings.Join(lines, "\n"))
		}
	}
}

func TestConsecutiveItemsCollapseToOneList(t *testing.T) {
	for n := 1; n <= 6; n++ {
		var b strings.Builder
		b.WriteString("intro\n")
		for i := 0; i < n; i++ {
			fmt.Fprintf(&b, "- item %d\n", i)
		}
		b.WriteString("outro")

		blocks := Render(b.String())
		require.Len(t, blocks, 3)
		assert.Equal(t, BlockList, blocks[1].Type)
		assert.Len(t, blocks[1].Items, n)
	}
}
