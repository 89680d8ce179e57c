package repurpose

import (
	"encoding/json"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"agency-backend/internal/seo"
	"agency-backend/internal/utils"
)

const (
	linkedInLimit  = 3000
	maxHashtags    = 5
	maxSlides      = 10
	wordsPerSecond = 2.5
	minSceneSecs   = 4
)

type LinkedInPost struct {
	Hook      string   `json:"hook"`
	Body      string   `json:"body"`
	Hashtags  []string `json:"hashtags"`
	Text      string   `json:"text"`
	CharCount int      `json:"charCount"`
}

// LinkedIn builds a post whose full text stays within LinkedIn's limit. The
// body gives way first; hook, link and hashtags are kept.
func LinkedIn(src Source, site seo.Site) LinkedInPost {
	hook := src.Title
	if src.Kind == KindCaseStudy && len(src.Stats) > 0 {
		hook = src.Stats[0].Value + " " + strings.ToLower(src.Stats[0].Label) + ": " + src.Title
	}

	var body strings.Builder
	if src.Summary != "" {
		body.WriteString(src.Summary + "\n\n")
	}
	for _, p := range src.KeyPoints(5) {
		body.WriteString("→ " + p.Text + "\n")
	}
	bodyText := strings.TrimSpace(body.String())

	tags := Hashtags(src.Tags, maxHashtags)
	footer := "Read more: " + site.Abs(src.Path)
	if len(tags) > 0 {
		footer += "\n\n" + strings.Join(tags, " ")
	}

	budget := linkedInLimit - utf8.RuneCountInString(hook) - utf8.RuneCountInString(footer) - 4
	if budget <= 0 {
		bodyText = ""
	} else {
		bodyText = utils.Truncate(bodyText, budget)
	}

	text := hook + "\n\n" + bodyText + "\n\n" + footer
	if bodyText == "" {
		text = hook + "\n\n" + footer
	}
	return LinkedInPost{
		Hook:      hook,
		Body:      bodyText,
		Hashtags:  tags,
		Text:      text,
		CharCount: utf8.RuneCountInString(text),
	}
}

// Hashtags turns free-form tags into unique CamelCase hashtags.
func Hashtags(tags []string, limit int) []string {
	seen := map[string]bool{}
	out := make([]string, 0, limit)
	for _, tag := range tags {
		if len(out) == limit {
			break
		}
		var b strings.Builder
		upper := true
		for _, r := range tag {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				upper = true
				continue
			}
			if upper {
				r = unicode.ToUpper(r)
				upper = false
			}
			b.WriteRune(r)
		}
		if b.Len() == 0 {
			continue
		}
		h := "#" + b.String()
		if key := strings.ToLower(h); !seen[key] {
			seen[key] = true
			out = append(out, h)
		}
	}
	return out
}

type SlideKind string

const (
	SlideTitle SlideKind = "title"
	SlidePoint SlideKind = "point"
	SlideStat  SlideKind = "stat"
	SlideQuote SlideKind = "quote"
	SlideCTA   SlideKind = "cta"
)

// Slide is one carousel page. Each kind carries its own fields.
type Slide interface {
	Kind() SlideKind
}

type TitleSlide struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
}

type PointSlide struct {
	Number  int    `json:"number"`
	Heading string `json:"heading,omitempty"`
	Text    string `json:"text"`
}

type StatSlide struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type QuoteSlide struct {
	Quote string `json:"quote"`
}

type CTASlide struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

func (TitleSlide) Kind() SlideKind { return SlideTitle }
func (PointSlide) Kind() SlideKind { return SlidePoint }
func (StatSlide) Kind() SlideKind  { return SlideStat }
func (QuoteSlide) Kind() SlideKind { return SlideQuote }
func (CTASlide) Kind() SlideKind   { return SlideCTA }

func (s TitleSlide) MarshalJSON() ([]byte, error) {
	type fields TitleSlide
	return json.Marshal(struct {
		Type SlideKind `json:"type"`
		fields
	}{s.Kind(), fields(s)})
}

func (s PointSlide) MarshalJSON() ([]byte, error) {
	type fields PointSlide
	return json.Marshal(struct {
		Type SlideKind `json:"type"`
		fields
	}{s.Kind(), fields(s)})
}

func (s StatSlide) MarshalJSON() ([]byte, error) {
	type fields StatSlide
	return json.Marshal(struct {
		Type SlideKind `json:"type"`
		fields
	}{s.Kind(), fields(s)})
}

func (s QuoteSlide) MarshalJSON() ([]byte, error) {
	type fields QuoteSlide
	return json.Marshal(struct {
		Type SlideKind `json:"type"`
		fields
	}{s.Kind(), fields(s)})
}

func (s CTASlide) MarshalJSON() ([]byte, error) {
	type fields CTASlide
	return json.Marshal(struct {
		Type SlideKind `json:"type"`
		fields
	}{s.Kind(), fields(s)})
}

type Carousel struct {
	Title  string  `json:"title"`
	Slides []Slide `json:"slides"`
}

// BuildCarousel lays out title, stats, points, an optional quote and a
// closing call to action, capped at ten slides.
func BuildCarousel(src Source, site seo.Site) Carousel {
	subtitle := src.Summary
	if utf8.RuneCountInString(subtitle) > 120 {
		subtitle = utils.Truncate(subtitle, 120)
	}
	slides := []Slide{TitleSlide{Title: src.Title, Subtitle: subtitle}}

	for i, st := range src.Stats {
		if i == 3 {
			break
		}
		slides = append(slides, StatSlide{Value: st.Value, Label: st.Label})
	}

	quote := src.Quote()
	room := maxSlides - len(slides) - 1
	if quote != "" {
		room--
	}
	for i, p := range src.KeyPoints(room) {
		slides = append(slides, PointSlide{Number: i + 1, Heading: p.Heading, Text: utils.Truncate(p.Text, 200)})
	}
	if quote != "" {
		slides = append(slides, QuoteSlide{Quote: utils.Truncate(quote, 200)})
	}

	cta := "Read the full story"
	if src.Kind == KindCaseStudy {
		cta = "See the full case study"
	}
	slides = append(slides, CTASlide{Text: cta, URL: site.Abs(src.Path)})
	return Carousel{Title: src.Title, Slides: slides}
}

type Scene struct {
	Number    int    `json:"number"`
	Narration string `json:"narration"`
	OnScreen  string `json:"onScreen"`
	Seconds   int    `json:"seconds"`
}

type VideoScript struct {
	Title        string  `json:"title"`
	Scenes       []Scene `json:"scenes"`
	TotalSeconds int     `json:"totalSeconds"`
}

// Video drafts a short narrated script: hook, one scene per key point, and a
// close.
func Video(src Source, site seo.Site) VideoScript {
	scenes := []Scene{{Narration: src.Title + ". " + firstSentence(src.Summary), OnScreen: src.Title}}
	for _, st := range src.Stats {
		if len(scenes) >= 3 {
			break
		}
		scenes = append(scenes, Scene{Narration: st.Value + " " + st.Label + ".", OnScreen: st.Value})
	}
	for _, p := range src.KeyPoints(4) {
		onScreen := p.Heading
		if onScreen == "" {
			onScreen = utils.Truncate(p.Text, 40)
		}
		scenes = append(scenes, Scene{Narration: firstSentence(p.Text), OnScreen: onScreen})
	}
	scenes = append(scenes, Scene{
		Narration: "Want results like these? Visit " + site.Name + ".",
		OnScreen:  site.Abs(src.Path),
	})

	total := 0
	for i := range scenes {
		scenes[i].Number = i + 1
		scenes[i].Narration = strings.TrimSpace(scenes[i].Narration)
		scenes[i].Seconds = sceneSeconds(scenes[i].Narration)
		total += scenes[i].Seconds
	}
	return VideoScript{Title: src.Title, Scenes: scenes, TotalSeconds: total}
}

func sceneSeconds(narration string) int {
	secs := int(math.Ceil(float64(len(strings.Fields(narration))) / wordsPerSecond))
	if secs < minSceneSecs {
		return minSceneSecs
	}
	return secs
}

func firstSentence(s string) string {
	s = strings.TrimSpace(s)
	for i, r := range s {
		if r == '.' || r == '!' || r == '?' {
			if i+1 == len(s) || s[i+1] == ' ' {
				return s[:i+1]
			}
		}
	}
	return s
}
