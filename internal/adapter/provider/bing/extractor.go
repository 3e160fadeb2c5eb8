package bing

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/k3a/html2text"
	"golang.org/x/net/html"

	"github.com/heartmarshall/wordbook/internal/domain"
	"github.com/heartmarshall/wordbook/internal/provider"
)

// Selectors for the current Bing dictionary layout. When the site changes,
// this block and the pattern below are the only things to update.
const (
	selSymbolEN    = ".hd_pr.b_primtxt"
	selSymbolUS    = ".hd_prUS.b_primtxt"
	selExplainItem = ".qdef ul li"
	selExplainPOS  = "span.pos"
	selExplainDef  = "span.def"
	selExampleEN   = ".val_ex"
	selExampleCN   = ".bil_ex"
)

// Older layouts put the audio URL in onmouseover instead of onclick.
var audioAttrs = []string{"onclick", "onmouseover"}

var mp3Pattern = regexp.MustCompile(`https://[\w./-]*\.mp3`)

// Extractor implements provider.MarkupAdapter for Bing dictionary pages.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Parse parses markup once. Unparseable input yields an empty document.
func (e *Extractor) Parse(m provider.Markup) provider.Document {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(m))
	if err != nil {
		doc = goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	}
	return &document{doc: doc}
}

type document struct {
	doc *goquery.Document
}

func (d *document) ExtractSymbols() provider.Symbols {
	return provider.Symbols{
		EN: textOf(d.doc.Find(selSymbolEN).First()),
		US: textOf(d.doc.Find(selSymbolUS).First()),
	}
}

func (d *document) ExtractPronunciationURLs() provider.Pronunciations {
	return provider.Pronunciations{
		EN: audioURL(d.doc.Find(selSymbolEN).First()),
		US: audioURL(d.doc.Find(selSymbolUS).First()),
	}
}

func (d *document) ExtractExplains() []domain.Explain {
	explains := []domain.Explain{}
	d.doc.Find(selExplainItem).Each(func(_ int, li *goquery.Selection) {
		pos := strings.TrimSpace(li.Find(selExplainPOS).First().Text())

		var meaning string
		if def := li.Find(selExplainDef).First(); def.Length() > 0 {
			if inner, err := def.Html(); err == nil {
				meaning = strings.TrimSpace(html2text.HTML2Text(inner))
			}
		}

		if pos == "" && meaning == "" {
			return
		}
		explains = append(explains, domain.Explain{PartOfSpeech: pos, Meaning: meaning})
	})
	return explains
}

func (d *document) ExtractExamples() []domain.Example {
	translations := d.doc.Find(selExampleCN)

	var examples []domain.Example
	d.doc.Find(selExampleEN).Each(func(i int, s *goquery.Selection) {
		sentence := strings.TrimSpace(s.Text())
		if sentence == "" {
			return
		}
		ex := domain.Example{Sentence: sentence}
		if i < translations.Length() {
			ex.Translation = strings.TrimSpace(translations.Eq(i).Text())
		}
		examples = append(examples, ex)
	})
	return examples
}

func textOf(s *goquery.Selection) *string {
	t := strings.TrimSpace(strings.ReplaceAll(s.Text(), "\u00a0", " "))
	if t == "" {
		return nil
	}
	return &t
}

// audioURL inspects the control that follows a transcription element and
// returns the first mp3 URL in its handler attribute.
func audioURL(symbol *goquery.Selection) *string {
	if symbol.Length() == 0 {
		return nil
	}
	link := symbol.Next().ChildrenFiltered("a").First()
	for _, attr := range audioAttrs {
		handler, ok := link.Attr(attr)
		if !ok {
			continue
		}
		if found := mp3Pattern.FindString(handler); found != "" {
			return &found
		}
	}
	return nil
}
