package importer

import (
	"context"
	"fmt"
	"strings"

	"catalog/manager/internal/domain"
	"catalog/manager/internal/service"

	"golang.org/x/sync/errgroup"

	log "github.com/sirupsen/logrus"
)

// Catalog is the part of the catalog service the importer writes through
type Catalog interface {
	InsertCategory(name, code, description string) *domain.Category
	Describe(name string) (service.CategoryInfo, bool)
	DefineSubcategory(parentName, childName string) error
	UpdateCategory(name, code, description string) error
	AssociateProduct(categoryName string, product *domain.Product) error
}

type Importer struct {
	catalog    Catalog
	fetcher    Fetcher
	parser     *outlineParser
	maxWorkers int
}

func NewImporter(catalog Catalog, fetcher Fetcher, maxWorkers int) *Importer {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &Importer{
		catalog:    catalog,
		fetcher:    fetcher,
		parser:     newOutlineParser(),
		maxWorkers: maxWorkers,
	}
}

// Import fetches every source concurrently, then applies them to the catalog
// one by one in the order given.
func (i *Importer) Import(ctx context.Context, sources []string) (*Summary, error) {
	summary := &Summary{}
	if len(sources) == 0 {
		return summary, nil
	}

	log.Infof("📥 Importing %d catalog sources", len(sources))

	documents := make([]string, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.maxWorkers)

	for idx, source := range sources {
		idx, source := idx, source
		g.Go(func() error {
			html, err := i.fetcher.Fetch(gctx, source)
			if err != nil {
				return err
			}
			documents[idx] = html
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for idx, source := range sources {
		outline, err := i.parser.Parse(source, documents[idx])
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", source, err)
		}

		i.apply(outline, summary)
		summary.Sources++
		log.Infof("✅ Imported %s", source)
	}

	log.Infof("🎉 Import finished: %d categories, %d products, %d trails, %d skipped",
		summary.Categories, summary.Products, summary.Trails, summary.Skipped)
	return summary, nil
}

func (i *Importer) apply(outline *Outline, summary *Summary) {
	for _, node := range outline.Nodes {
		if _, ok := i.catalog.Describe(node.Name); ok {
			i.describe(node)
		} else {
			i.catalog.InsertCategory(node.Name, node.Code, node.Description)
			summary.Categories++
		}
		i.applyContent(node, summary)
	}

	for _, trail := range outline.Trails {
		if i.applyTrail(trail, summary) {
			summary.Trails++
		}
	}
}

func (i *Importer) applyContent(node *OutlineNode, summary *Summary) {
	for _, p := range node.Products {
		product := domain.NewProduct(p.Name, p.Code, p.Price, p.Brand)
		if err := i.catalog.AssociateProduct(node.Name, product); err != nil {
			log.Warnf("⚠️ Product %q not imported: %v", p.Name, err)
			summary.Skipped++
			continue
		}
		summary.Products++
	}

	for _, child := range node.Children {
		if err := i.catalog.DefineSubcategory(node.Name, child.Name); err != nil {
			log.Warnf("⚠️ Subcategory %q of %q not imported: %v", child.Name, node.Name, err)
			summary.Skipped++
			continue
		}
		summary.Categories++
		i.describe(child)
		i.applyContent(child, summary)
	}
}

// describe keeps code and description of an outline entry, without erasing
// existing values when the outline carries none.
func (i *Importer) describe(node *OutlineNode) {
	if node.Code == "" && node.Description == "" {
		return
	}

	existing, ok := i.catalog.Describe(node.Name)
	if !ok {
		return
	}
	code, description := existing.Code, existing.Description
	if node.Code != "" {
		code = node.Code
	}
	if node.Description != "" {
		description = node.Description
	}

	if err := i.catalog.UpdateCategory(node.Name, code, description); err != nil {
		log.Warnf("⚠️ Could not update %q: %v", node.Name, err)
	}
}

func (i *Importer) applyTrail(trail []string, summary *Summary) bool {
	if _, ok := i.catalog.Describe(trail[0]); !ok {
		i.catalog.InsertCategory(trail[0], "", "")
		summary.Categories++
	}

	for idx := 1; idx < len(trail); idx++ {
		parentName, name := trail[idx-1], trail[idx]

		if existing, ok := i.catalog.Describe(name); ok && strings.EqualFold(existing.Parent, parentName) {
			continue
		}

		if err := i.catalog.DefineSubcategory(parentName, name); err != nil {
			log.Warnf("⚠️ Breadcrumb %s stopped at %q: %v", strings.Join(trail, " > "), name, err)
			summary.Skipped++
			return false
		}
		summary.Categories++
	}
	return true
}
