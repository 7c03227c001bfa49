package importer

import "github.com/shopspring/decimal"

// Outline is everything recognised in one catalog document
type Outline struct {
	Source string
	Nodes  []*OutlineNode // top-level categories of ul.catalog lists
	Trails [][]string     // breadcrumb trails, root first
}

type OutlineNode struct {
	Name        string
	Code        string
	Description string
	Products    []OutlineProduct
	Children    []*OutlineNode
}

type OutlineProduct struct {
	Name  string
	Code  string
	Price decimal.Decimal
	Brand string
}

// Summary counts what an import changed in the catalog
type Summary struct {
	Sources    int
	Categories int
	Products   int
	Trails     int
	Skipped    int
}
