package service

import (
	"fmt"
	"strings"
	"sync"

	"catalog/manager/internal/domain"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const (
	pathSeparator = " > "
	indentUnit    = "    "
)

// CatalogService owns the category tree and the registry of every product
// created or associated through it. All methods are safe for concurrent use.
// The *domain.Category values returned by Root, InsertCategory and
// FindCategory are live tree nodes outside the lock: read them only while no
// mutation can run, otherwise use Describe.
type CatalogService struct {
	mu       sync.RWMutex
	root     *domain.Category
	products []*domain.Product
}

func NewCatalogService() *CatalogService {
	return &CatalogService{
		products: make([]*domain.Product, 0),
	}
}

// Root returns nil while the catalog is empty
func (s *CatalogService) Root() *domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.root
}

func (s *CatalogService) Products() []*domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]*domain.Product, len(s.products))
	copy(products, s.products)
	return products
}

// InsertCategory creates a category. The first one becomes the root, every
// later one is attached directly below the root.
func (s *CatalogService) InsertCategory(name, code, description string) *domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	category := domain.NewCategory(name, code, description)
	if s.root == nil {
		s.root = category
		log.Debugf("Category %q inserted as root", name)
		return category
	}

	s.root.AddChild(category)
	log.Debugf("Category %q inserted below root %q", name, s.root.Name)
	return category
}

func (s *CatalogService) InsertProduct(name, code string, price decimal.Decimal, brand string) *domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := domain.NewProduct(name, code, price, brand)
	s.products = append(s.products, product)
	log.Debugf("Product %q registered (%d in registry)", name, len(s.products))
	return product
}

// FindCategory searches the tree depth-first in pre-order and returns the
// first category whose name matches case-insensitively.
func (s *CatalogService) FindCategory(name string) (*domain.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category := s.find(name)
	return category, category != nil
}

// CategoryInfo is a copy of a category's fields taken under the read lock
type CategoryInfo struct {
	Name        string
	Code        string
	Description string
	// Parent is empty for the root
	Parent string
}

// Describe looks the category up like FindCategory and copies its fields
// before releasing the lock.
func (s *CatalogService) Describe(name string) (CategoryInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category := s.find(name)
	if category == nil {
		return CategoryInfo{}, false
	}

	info := CategoryInfo{
		Name:        category.Name,
		Code:        category.Code,
		Description: category.Description,
	}
	if parent := category.Parent(); parent != nil {
		info.Parent = parent.Name
	}
	return info, true
}

func (s *CatalogService) find(name string) *domain.Category {
	if s.root == nil {
		return nil
	}
	return findFrom(s.root, name)
}

func findFrom(current *domain.Category, name string) *domain.Category {
	if strings.EqualFold(current.Name, name) {
		return current
	}
	for _, child := range current.Children() {
		if found := findFrom(child, name); found != nil {
			return found
		}
	}
	return nil
}

// DefineSubcategory makes childName a child of parentName. An existing child
// is moved away from its current parent; a missing one is created with only
// its name set.
func (s *CatalogService) DefineSubcategory(parentName, childName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent := s.find(parentName)
	if parent == nil {
		log.Warnf("Parent category %q not found", parentName)
		return fmt.Errorf("%w: %s", ErrParentNotFound, parentName)
	}

	child := s.find(childName)
	if child == nil {
		child = domain.NewCategory(childName, "", "")
	} else {
		if child == parent || child.IsAncestorOf(parent) {
			log.Warnf("Refusing to attach %q below its descendant %q", childName, parentName)
			return fmt.Errorf("%w: %s under %s", ErrCycle, childName, parentName)
		}
		if old := child.Parent(); old != nil {
			old.RemoveChild(child)
		}
	}

	parent.AddChild(child)
	log.Debugf("Subcategory %q defined as child of %q", childName, parentName)
	return nil
}

// AssociateProduct adds product to the category and to the product registry.
func (s *CatalogService) AssociateProduct(categoryName string, product *domain.Product) error {
	if product == nil {
		log.Warn("Refusing to associate a nil product")
		return ErrNilProduct
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	category := s.find(categoryName)
	if category == nil {
		log.Warnf("Category %q not found", categoryName)
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, categoryName)
	}

	category.AddProduct(product)
	s.products = append(s.products, product)
	log.Debugf("Product %q associated to category %q", product.Name(), categoryName)
	return nil
}

// UpdateCategory replaces the code and description of an existing category
func (s *CatalogService) UpdateCategory(name, code, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	category := s.find(name)
	if category == nil {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, name)
	}

	category.Code = code
	category.Description = description
	return nil
}

// Path returns the names from the root down to the category, joined by " > ".
func (s *CatalogService) Path(name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category := s.find(name)
	if category == nil {
		return "", fmt.Errorf("%w: %s", ErrCategoryNotFound, name)
	}
	return pathOf(category), nil
}

func pathOf(category *domain.Category) string {
	if category.Parent() == nil {
		return category.Name
	}
	return pathOf(category.Parent()) + pathSeparator + category.Name
}

// FullPathOf renders the path of a category for display.
func (s *CatalogService) FullPathOf(name string) string {
	path, err := s.Path(name)
	if err != nil {
		return fmt.Sprintf("Categoria (%s) não encontrada", name)
	}
	return "Caminho completo: " + path
}

// RemoveCategory detaches the category and with it its whole subtree.
// Products already in the registry stay there.
func (s *CatalogService) RemoveCategory(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.find(name)
	if target == nil {
		log.Warnf("Category %q not found", name)
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, name)
	}
	if target == s.root {
		log.Warn("Refusing to remove the root category")
		return ErrCannotRemoveRoot
	}

	target.Parent().RemoveChild(target)
	log.Debugf("Category %q removed with its subtree", name)
	return nil
}

// ListTree renders the tree in pre-order, one category per line indented by
// depth. The products of a category follow its subcategories.
func (s *CatalogService) ListTree() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.root == nil {
		return nil, ErrEmptyCatalog
	}

	lines := make([]string, 0)
	appendTree(&lines, s.root)
	return lines, nil
}

func appendTree(lines *[]string, current *domain.Category) {
	depth := current.Depth()
	indent := strings.Repeat(indentUnit, depth)
	prefix := "|-- "
	if depth == 0 {
		prefix = "[Raiz] "
	}
	*lines = append(*lines, fmt.Sprintf("%s%sCategoria: %s (Cód: %s)", indent, prefix, current.Name, current.Code))

	for _, child := range current.Children() {
		appendTree(lines, child)
	}

	for _, p := range current.Products() {
		*lines = append(*lines, fmt.Sprintf("%s%s-> [Produto] %s | R$ %s | Marca: %s",
			indent, indentUnit, p.Name(), p.Price().StringFixed(2), p.Brand()))
	}
}

// NavigationRoutes returns the full path of every leaf, in pre-order.
func (s *CatalogService) NavigationRoutes() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.root == nil {
		return nil, ErrEmptyCatalog
	}

	routes := make([]string, 0)
	appendRoutes(&routes, s.root)
	return routes, nil
}

func appendRoutes(routes *[]string, current *domain.Category) {
	if current.IsLeaf() {
		*routes = append(*routes, "Rota: Caminho completo: "+pathOf(current))
		return
	}
	for _, child := range current.Children() {
		appendRoutes(routes, child)
	}
}
