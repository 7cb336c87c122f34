package textquery

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xmlquery"
)

func selectCSS(text, expression string, c *collector) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return fmt.Errorf("parse HTML: %w", err)
	}
	doc.Find(expression).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		return c.add(s.Text())
	})
	return nil
}

func selectHTMLXPath(text, expression string, c *collector) error {
	doc, err := htmlquery.Parse(strings.NewReader(text))
	if err != nil {
		return fmt.Errorf("parse HTML: %w", err)
	}
	nodes, err := htmlquery.QueryAll(doc, expression)
	if err != nil {
		return fmt.Errorf("invalid XPath expression: %w", err)
	}
	for _, n := range nodes {
		if !c.add(htmlquery.InnerText(n)) {
			break
		}
	}
	return nil
}

func selectXMLXPath(text, expression string, c *collector) error {
	doc, err := xmlquery.Parse(strings.NewReader(text))
	if err != nil {
		return fmt.Errorf("parse XML: %w", err)
	}
	nodes, err := xmlquery.QueryAll(doc, expression)
	if err != nil {
		return fmt.Errorf("invalid XPath expression: %w", err)
	}
	for _, n := range nodes {
		if !c.add(n.InnerText()) {
			break
		}
	}
	return nil
}
