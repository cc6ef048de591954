// Package extract pulls visible paragraph text out of fetched profile pages.
//
// Extraction is site-specific by design: the selectors target one page
// template, so each target site gets its own Extractor implementation.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extractor turns a fetched HTML body into the profile's free text.
type Extractor interface {
	Extract(body []byte) (string, error)
}

// nbsp is a lone non-breaking space, which Squarespace emits for visually
// empty paragraphs.
const nbsp = "\u00a0"

// asciiSpace matches Python's str.strip semantics, which leave U+00A0 intact.
const asciiSpace = " \t\r\n\v\f"

// Squarespace extracts paragraph text from Squarespace content blocks.
type Squarespace struct {
	blockSelector string
}

// NewSquarespace builds an extractor over the given block selector. An empty
// selector falls back to the stock Squarespace content block class.
func NewSquarespace(blockSelector string) *Squarespace {
	if blockSelector == "" {
		blockSelector = "div.sqs-block-content"
	}
	return &Squarespace{blockSelector: blockSelector}
}

// Extract concatenates the trimmed text of every paragraph inside every
// matching content block, joined with single spaces. Paragraphs whose trimmed
// text is empty or a lone non-breaking space are skipped.
func (s *Squarespace) Extract(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse profile html: %w", err)
	}

	var parts []string
	doc.Find(s.blockSelector).Each(func(_ int, block *goquery.Selection) {
		block.Find("p").Each(func(_ int, p *goquery.Selection) {
			text := strings.Trim(p.Text(), asciiSpace)
			if text == "" || text == nbsp {
				return
			}
			parts = append(parts, text)
		})
	})

	return strings.Join(parts, " "), nil
}
