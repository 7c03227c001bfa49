package importer

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type outlineParser struct{}

func newOutlineParser() *outlineParser {
	return &outlineParser{}
}

// Parse reads nested ul.catalog lists and .breadcrumb trails from an HTML document.
func (p *outlineParser) Parse(source, html string) (*Outline, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	outline := &Outline{Source: source}

	var parseErr error
	doc.Find("ul.catalog").EachWithBreak(func(_ int, list *goquery.Selection) bool {
		// nested catalog lists are handled by their enclosing item
		if list.ParentsFiltered("li").Length() > 0 {
			return true
		}
		nodes, err := p.parseItems(list.ChildrenFiltered("li"))
		if err != nil {
			parseErr = err
			return false
		}
		outline.Nodes = append(outline.Nodes, nodes...)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	outline.Trails = p.extractTrails(doc)

	log.Debugf("Parsed %s: %d top-level categories, %d breadcrumb trails", source, len(outline.Nodes), len(outline.Trails))
	return outline, nil
}

func (p *outlineParser) parseItems(items *goquery.Selection) ([]*OutlineNode, error) {
	nodes := make([]*OutlineNode, 0, items.Length())

	var parseErr error
	items.EachWithBreak(func(_ int, item *goquery.Selection) bool {
		node, err := p.parseNode(item)
		if err != nil {
			parseErr = err
			return false
		}
		if node != nil {
			nodes = append(nodes, node)
		}
		return true
	})

	return nodes, parseErr
}

func (p *outlineParser) parseNode(item *goquery.Selection) (*OutlineNode, error) {
	name := itemName(item)
	if name == "" {
		log.Warnf("Skipping catalog entry without a name")
		return nil, nil
	}

	node := &OutlineNode{
		Name:        name,
		Code:        strings.TrimSpace(item.AttrOr("data-code", "")),
		Description: strings.TrimSpace(item.AttrOr("data-description", "")),
	}

	var parseErr error
	item.ChildrenFiltered("ol.products").ChildrenFiltered("li").EachWithBreak(func(_ int, entry *goquery.Selection) bool {
		product, err := parseProduct(entry)
		if err != nil {
			parseErr = fmt.Errorf("category %q: %w", name, err)
			return false
		}
		if product != nil {
			node.Products = append(node.Products, *product)
		}
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	children, err := p.parseItems(item.ChildrenFiltered("ul").ChildrenFiltered("li"))
	if err != nil {
		return nil, err
	}
	node.Children = children

	return node, nil
}

func parseProduct(entry *goquery.Selection) (*OutlineProduct, error) {
	name := itemName(entry)
	if name == "" {
		log.Warnf("Skipping product entry without a name")
		return nil, nil
	}

	price := decimal.Zero
	if raw := strings.TrimSpace(entry.AttrOr("data-price", "")); raw != "" {
		parsed, err := decimal.NewFromString(strings.Replace(raw, ",", ".", 1))
		if err != nil {
			return nil, fmt.Errorf("invalid price %q for product %q: %w", raw, name, err)
		}
		price = parsed
	}

	return &OutlineProduct{
		Name:  name,
		Code:  strings.TrimSpace(entry.AttrOr("data-code", "")),
		Price: price,
		Brand: strings.TrimSpace(entry.AttrOr("data-brand", "")),
	}, nil
}

// itemName prefers data-name, then the item's own text, then its first link or span.
func itemName(item *goquery.Selection) string {
	if name := strings.TrimSpace(item.AttrOr("data-name", "")); name != "" {
		return name
	}

	var parts []string
	item.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			parts = append(parts, c.Text())
		}
	})
	if name := collapseSpaces(strings.Join(parts, " ")); name != "" {
		return name
	}

	return collapseSpaces(item.ChildrenFiltered("a, span").First().Text())
}

func (p *outlineParser) extractTrails(doc *goquery.Document) [][]string {
	var trails [][]string

	doc.Find(".breadcrumb").Each(func(_ int, crumb *goquery.Selection) {
		if crumb.ParentsFiltered(".breadcrumb").Length() > 0 {
			return
		}

		steps := crumb.Find("li")
		if steps.Length() == 0 {
			steps = crumb.Find("a")
		}

		var trail []string
		steps.Each(func(_ int, step *goquery.Selection) {
			if name := collapseSpaces(step.Text()); name != "" {
				trail = append(trail, name)
			}
		})
		if len(trail) > 0 {
			trails = append(trails, trail)
		}
	})

	return trails
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
