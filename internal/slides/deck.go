package slides

import (
	"strings"

	"github.com/phrazzld/spelldeck-api/internal/domain"
)

// Colors used by the word decks, as RRGGBB hex.
const (
	ColorBrandGreen = "186433"
	ColorAntonymRed = "B91C1C"
	ColorBlack      = "000000"
)

// Font sizes in hundredths of a point.
const (
	SizeLarge  = 4400
	SizeMedium = 3200
	SizeNormal = 2400
)

// Slide headings, in deck order.
const (
	HeadingDefinition = "Definition"
	HeadingSentence   = "Usage in a Sentence"
	HeadingSounds     = "Sounds & Spelling"
	HeadingOrigin     = "Word Origin & Parts"
	HeadingSynonyms   = "Synonyms"
	HeadingAntonyms   = "Antonyms"
)

// SlideKind selects the layout a slide is based on.
type SlideKind int

// Slide kinds
const (
	KindTitle SlideKind = iota
	KindContent
)

// Run is one formatted paragraph of text.
type Run struct {
	Text  string
	Color string
	Size  int
	Bold  bool
}

// Slide is a title slide (Title + Subtitle) or a content slide (Title + Body).
// Bullets marks a body rendered as a bulleted list.
type Slide struct {
	Kind     SlideKind
	Title    Run
	Subtitle Run
	Body     []Run
	Bullets  bool
}

// Deck is an ordered list of slides.
type Deck struct {
	Title  string
	Slides []Slide
}

// BuildDeck lays out the slides for one word: a title slide followed by one
// content slide per populated field. Fields that are empty after trimming
// produce no slide.
func BuildDeck(record *domain.WordRecord) Deck {
	word := strings.TrimSpace(record.Word)
	deck := Deck{Title: word}

	deck.Slides = append(deck.Slides, Slide{
		Kind:     KindTitle,
		Title:    Run{Text: "Word of the Week: " + word, Color: ColorBrandGreen, Size: SizeLarge, Bold: true},
		Subtitle: Run{Text: "Spelling Focus", Color: ColorBrandGreen, Size: SizeMedium},
	})

	addText := func(heading, text string) {
		if text = strings.TrimSpace(text); text != "" {
			deck.Slides = append(deck.Slides, contentSlide(heading, []Run{bodyRun(text, ColorBlack)}))
		}
	}
	addList := func(heading string, items []string, color string) {
		if len(items) == 0 {
			return
		}
		body := make([]Run, 0, len(items))
		for _, item := range items {
			body = append(body, bodyRun(item, color))
		}
		slide := contentSlide(heading, body)
		slide.Bullets = true
		deck.Slides = append(deck.Slides, slide)
	}

	addText(HeadingDefinition, record.Definition)
	addText(HeadingSentence, record.Sentence)
	if sounds := soundsBody(record); len(sounds) > 0 {
		deck.Slides = append(deck.Slides, contentSlide(HeadingSounds, sounds))
	}
	addText(HeadingOrigin, record.Origin())
	addList(HeadingSynonyms, record.SynonymList(), ColorBrandGreen)
	addList(HeadingAntonyms, record.AntonymList(), ColorAntonymRed)

	return deck
}

// soundsBody builds the pronunciation slide body; empty when the record has
// no phonics fields.
func soundsBody(record *domain.WordRecord) []Run {
	var body []Run
	for _, f := range []struct{ label, value string }{
		{"Say it", record.Pronunciation},
		{"Sounds", record.Phonemes},
		{"Spelling", record.Graphemes},
	} {
		if v := strings.TrimSpace(f.value); v != "" {
			body = append(body, bodyRun(f.label+": "+v, ColorBlack))
		}
	}
	return body
}

func contentSlide(heading string, body []Run) Slide {
	return Slide{
		Kind:  KindContent,
		Title: Run{Text: heading, Color: ColorBlack, Size: SizeLarge},
		Body:  body,
	}
}

func bodyRun(text, color string) Run {
	return Run{Text: text, Color: color, Size: SizeNormal}
}

// Headings returns the titles of the deck's content slides, in order.
func (d Deck) Headings() []string {
	var out []string
	for _, s := range d.Slides {
		if s.Kind == KindContent {
			out = append(out, s.Title.Text)
		}
	}
	return out
}
