package calendar

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"agency-backend/internal/blog"
	"agency-backend/internal/casestudies"
	"agency-backend/internal/repurpose"
	"agency-backend/internal/seo"
)

var ErrUnknownDraftType = errors.New("unknown draft type")

type LatestPoster interface {
	Latest(ctx context.Context) (blog.Post, error)
}

type CaseStudyLister interface {
	ListReal(ctx context.Context) ([]casestudies.CaseStudy, error)
}

// Drafter fills channel templates from the newest published content.
type Drafter struct {
	posts LatestPoster
	cases CaseStudyLister
	site  seo.Site
}

func NewDrafter(posts LatestPoster, cases CaseStudyLister, site seo.Site) *Drafter {
	return &Drafter{posts: posts, cases: cases, site: site}
}

// DraftChannel maps the accepted spellings of a draft type onto a channel.
func DraftChannel(kind string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "linkedin":
		return ChannelLinkedIn, true
	case "blog":
		return ChannelBlog, true
	case "casestudies", "case-studies", "casestudy", "case-study":
		return ChannelCaseStudies, true
	case "clientcontact", "client-contact":
		return ChannelClientContact, true
	}
	return "", false
}

func (d *Drafter) Generate(ctx context.Context, kind string) (Draft, error) {
	channel, ok := DraftChannel(kind)
	if !ok {
		return Draft{}, fmt.Errorf("%w: %q", ErrUnknownDraftType, kind)
	}

	post, hasPost, err := d.latestPost(ctx)
	if err != nil {
		return Draft{}, err
	}
	cs, hasCase, err := d.latestCase(ctx)
	if err != nil {
		return Draft{}, err
	}

	switch channel {
	case ChannelLinkedIn:
		return d.linkedIn(post, hasPost, cs, hasCase)
	case ChannelBlog:
		return d.blogOutline(cs, hasCase), nil
	case ChannelCaseStudies:
		return d.caseStudyOutline(cs, hasCase), nil
	default:
		return d.clientContact(post, hasPost, cs, hasCase), nil
	}
}

func (d *Drafter) latestPost(ctx context.Context) (blog.Post, bool, error) {
	if d.posts == nil {
		return blog.Post{}, false, nil
	}
	post, err := d.posts.Latest(ctx)
	if errors.Is(err, blog.ErrNotFound) {
		return blog.Post{}, false, nil
	}
	if err != nil {
		return blog.Post{}, false, err
	}
	return post, true, nil
}

func (d *Drafter) latestCase(ctx context.Context) (casestudies.CaseStudy, bool, error) {
	if d.cases == nil {
		return casestudies.CaseStudy{}, false, nil
	}
	items, err := d.cases.ListReal(ctx)
	if err != nil {
		return casestudies.CaseStudy{}, false, err
	}
	if len(items) == 0 {
		return casestudies.CaseStudy{}, false, nil
	}
	return items[0], true, nil
}

func (d *Drafter) linkedIn(post blog.Post, hasPost bool, cs casestudies.CaseStudy, hasCase bool) (Draft, error) {
	var (
		src repurpose.Source
		err error
	)
	switch {
	case hasPost:
		src, err = repurpose.FromPost(post)
	case hasCase:
		src, err = repurpose.FromCaseStudy(cs)
	default:
		return Draft{
			Type:  ChannelLinkedIn,
			Title: "LinkedIn post",
			Body: "What is one thing your customers asked about this week?\n\n" +
				"→ Share the question\n→ Share how you answered it\n→ Invite others to weigh in\n\n" + d.site.URL,
		}, nil
	}
	if err != nil {
		return Draft{}, err
	}
	li := repurpose.LinkedIn(src, d.site)
	return Draft{
		Type:     ChannelLinkedIn,
		Title:    li.Hook,
		Body:     li.Text,
		Hashtags: li.Hashtags,
		Source:   src.Kind + ":" + src.Slug,
	}, nil
}

func (d *Drafter) blogOutline(cs casestudies.CaseStudy, hasCase bool) Draft {
	if !hasCase {
		return Draft{
			Type:  ChannelBlog,
			Title: "Blog post draft",
			Body:  "# Working title\n\n## The problem\n\n## What we recommend\n\n- \n- \n- \n\n## Next steps\n",
		}
	}
	topic := cs.Industry
	if topic == "" {
		topic = cs.Client
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Lessons from %s\n\n", cs.Title)
	fmt.Fprintf(&b, "## What %s brands get wrong\n\n%s\n\n", topic, firstLine(cs.Challenge))
	b.WriteString("## What worked\n\n")
	for _, s := range cs.Services {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	b.WriteString("\n## The numbers\n\n")
	for _, st := range sortedStats(cs.Stats) {
		fmt.Fprintf(&b, "- %s: %s\n", st.Label, st.Value)
	}
	fmt.Fprintf(&b, "\nRead the full case study: %s\n", d.site.Abs(casestudies.Path(cs.Slug)))
	return Draft{Type: ChannelBlog, Title: "Lessons from " + cs.Title, Body: b.String(), Source: repurpose.KindCaseStudy + ":" + cs.Slug}
}

func (d *Drafter) caseStudyOutline(cs casestudies.CaseStudy, hasCase bool) Draft {
	var b strings.Builder
	b.WriteString("# Client name: project title\n\n")
	b.WriteString("## The Challenge\n\n## Our Solution\n\n## The Results\n\nResults: \n")
	draft := Draft{Type: ChannelCaseStudies, Title: "Case study draft", Body: b.String()}
	if hasCase {
		draft.Body += "\nPrevious case study for reference: " + d.site.Abs(casestudies.Path(cs.Slug)) + "\n"
		draft.Source = repurpose.KindCaseStudy + ":" + cs.Slug
	}
	return draft
}

func (d *Drafter) clientContact(post blog.Post, hasPost bool, cs casestudies.CaseStudy, hasCase bool) Draft {
	var b strings.Builder
	b.WriteString("Hi {{first name}},\n\n")
	b.WriteString("Checking in to see how things are going on your side and whether anything is coming up we can help with.\n")
	if hasPost {
		fmt.Fprintf(&b, "\nWe just published %q, which might be useful: %s\n", post.Title, d.site.Abs(blog.Path(post.Slug)))
	}
	if hasCase {
		fmt.Fprintf(&b, "\nOur latest project, %s, is written up here: %s\n", cs.Title, d.site.Abs(casestudies.Path(cs.Slug)))
	}
	b.WriteString("\nWould a quick call next week work?\n\nBest,\n" + d.site.Name + "\n")
	return Draft{Type: ChannelClientContact, Title: "Client check-in", Body: b.String()}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

func sortedStats(stats map[string]string) []repurpose.Stat {
	out := make([]repurpose.Stat, 0, len(stats))
	for k, v := range stats {
		out = append(out, repurpose.Stat{Label: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
