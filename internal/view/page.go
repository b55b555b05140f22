package view

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"github.com/Belphemur/ShowSearch/internal/apperrors"
)

//go:embed templates/page.html
var templates embed.FS

// Selectors of the fixed page regions
const (
	showsListSelector    = "#showsList"
	episodesAreaSelector = "#episodesArea"
	episodesListSelector = "#episodesList"
	errorAreaSelector    = "#errorArea"
	searchInputSelector  = "#searchForm-term"
	episodeControlClass  = "Show-getEpisodes"
	showCardClass        = "Show"
	showIDAttr           = "data-show-id"
)

// Page is one browser session's document. It is not safe for concurrent use.
type Page struct {
	doc *goquery.Document
}

// Targets are the regions of a page the renderer writes to.
type Targets struct {
	ShowsList    *goquery.Selection
	EpisodesArea *goquery.Selection
	EpisodesList *goquery.Selection
	ErrorArea    *goquery.Selection
	SearchInput  *goquery.Selection
}

// NewPage returns a blank page built from the embedded skeleton.
func NewPage() (*Page, error) {
	skeleton, err := templates.ReadFile("templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("read page skeleton: %w", err)
	}
	return LoadPage(bytes.NewReader(skeleton))
}

// LoadPage parses a previously serialized page. It fails when any render target is missing.
func LoadPage(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	p := &Page{doc: doc}
	if err := p.Targets().validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Targets returns the page's render targets.
func (p *Page) Targets() Targets {
	return Targets{
		ShowsList:    p.doc.Find(showsListSelector),
		EpisodesArea: p.doc.Find(episodesAreaSelector),
		EpisodesList: p.doc.Find(episodesListSelector),
		ErrorArea:    p.doc.Find(errorAreaSelector),
		SearchInput:  p.doc.Find(searchInputSelector),
	}
}

// SetSearchTerm puts term in the search input, as if the user typed it.
func (p *Page) SetSearchTerm(term string) {
	p.doc.Find(searchInputSelector).SetAttr("value", term)
}

// EpisodeControl returns the Episodes control with the given index in document order.
func (p *Page) EpisodeControl(index int) (*goquery.Selection, error) {
	controls := p.doc.Find("." + episodeControlClass)
	if index < 0 || index >= controls.Length() {
		return nil, apperrors.NewInvalidArgumentError("control", "no Episodes control with index "+strconv.Itoa(index))
	}
	return controls.Eq(index), nil
}

// HTML serializes the whole document.
func (p *Page) HTML() (string, error) {
	return p.doc.Html()
}

// Document exposes the underlying goquery document, mostly for assertions.
func (p *Page) Document() *goquery.Document {
	return p.doc
}

func (t Targets) validate() error {
	for name, sel := range map[string]*goquery.Selection{
		showsListSelector:    t.ShowsList,
		episodesAreaSelector: t.EpisodesArea,
		episodesListSelector: t.EpisodesList,
		errorAreaSelector:    t.ErrorArea,
		searchInputSelector:  t.SearchInput,
	} {
		if sel == nil || sel.Length() != 1 {
			return fmt.Errorf("page is missing render target %s", name)
		}
	}
	return nil
}

// IsHidden reports whether sel carries the hidden attribute.
func IsHidden(sel *goquery.Selection) bool {
	_, hidden := sel.Attr("hidden")
	return hidden
}
