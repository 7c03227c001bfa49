package domain

// Category is a node of the catalog tree.
// Children are owned by the node, parent is a back-reference kept in sync by
// AddChild and RemoveChild.
type Category struct {
	Name        string
	Code        string
	Description string

	parent   *Category
	children []*Category
	products []*Product
}

func NewCategory(name, code, description string) *Category {
	return &Category{
		Name:        name,
		Code:        code,
		Description: description,
	}
}

// Parent returns nil for the root
func (c *Category) Parent() *Category {
	return c.parent
}

func (c *Category) Children() []*Category {
	children := make([]*Category, len(c.children))
	copy(children, c.children)
	return children
}

func (c *Category) Products() []*Product {
	products := make([]*Product, len(c.products))
	copy(products, c.products)
	return products
}

// AddChild attaches child as the last child of c.
// A child that still belongs to another parent must be detached first.
func (c *Category) AddChild(child *Category) {
	child.parent = c
	c.children = append(c.children, child)
}

// RemoveChild detaches a direct child. It reports false if child is not one.
func (c *Category) RemoveChild(child *Category) bool {
	for i, existing := range c.children {
		if existing == child {
			c.children = append(c.children[:i], c.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

func (c *Category) AddProduct(product *Product) {
	c.products = append(c.products, product)
}

func (c *Category) RemoveProduct(product *Product) bool {
	for i, existing := range c.products {
		if existing == product {
			c.products = append(c.products[:i], c.products[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Category) IsLeaf() bool {
	return len(c.children) == 0
}

func (c *Category) Depth() int {
	if c.parent == nil {
		return 0
	}
	return 1 + c.parent.Depth()
}

// IsAncestorOf reports whether c appears on the parent chain of other.
// A category is not its own ancestor.
func (c *Category) IsAncestorOf(other *Category) bool {
	for p := other.parent; p != nil; p = p.parent {
		if p == c {
			return true
		}
	}
	return false
}
