package service

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"catalog/manager/internal/domain"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chain builds root -> A -> B -> C
func chain(t *testing.T) *CatalogService {
	t.Helper()
	s := NewCatalogService()
	s.InsertCategory("root", "R", "")
	require.NoError(t, s.DefineSubcategory("root", "A"))
	require.NoError(t, s.DefineSubcategory("A", "B"))
	require.NoError(t, s.DefineSubcategory("B", "C"))
	return s
}

func countByName(category *domain.Category, name string) int {
	n := 0
	if strings.EqualFold(category.Name, name) {
		n++
	}
	for _, child := range category.Children() {
		n += countByName(child, name)
	}
	return n
}

func TestInsertCategoryFirstBecomesRoot(t *testing.T) {
	s := NewCatalogService()
	assert.Nil(t, s.Root())

	first := s.InsertCategory("Eletrônicos", "E", "tudo")
	second := s.InsertCategory("Livros", "L", "")
	third := s.InsertCategory("Roupas", "R", "")

	assert.Same(t, first, s.Root())
	assert.Equal(t, 0, s.Root().Depth())
	assert.Nil(t, s.Root().Parent())
	assert.Equal(t, []*domain.Category{second, third}, s.Root().Children())
	assert.Equal(t, 1, second.Depth())
}

func TestInsertProductRegisters(t *testing.T) {
	s := NewCatalogService()
	p := s.InsertProduct("Mouse", "M1", decimal.RequireFromString("59.90"), "Logi")

	assert.Equal(t, "Mouse", p.Name())
	assert.True(t, decimal.RequireFromString("59.9").Equal(p.Price()))
	assert.Equal(t, []*domain.Product{p}, s.Products())
}

func TestFindCategoryIsCaseInsensitive(t *testing.T) {
	s := NewCatalogService()
	s.InsertCategory("Electronics", "", "")

	found, ok := s.FindCategory("electronics")
	require.True(t, ok)
	assert.Equal(t, "Electronics", found.Name)

	_, ok = s.FindCategory("ELECTRONIC")
	assert.False(t, ok)
}

func TestFindCategoryOnEmptyCatalog(t *testing.T) {
	s := NewCatalogService()
	found, ok := s.FindCategory("anything")
	assert.False(t, ok)
	assert.Nil(t, found)
}

func TestFindCategoryFirstPreOrderMatchWins(t *testing.T) {
	s := NewCatalogService()
	s.InsertCategory("root", "", "")
	left := s.InsertCategory("left", "", "")
	s.InsertCategory("dup", "second", "")
	require.NoError(t, s.DefineSubcategory("left", "nested"))
	// a duplicate name deeper in the left subtree comes first in pre-order
	nested, _ := s.FindCategory("nested")
	nested.AddChild(domain.NewCategory("DUP", "first", ""))

	found, ok := s.FindCategory("dup")
	require.True(t, ok)
	assert.Equal(t, "first", found.Code)
	assert.Same(t, left, found.Parent().Parent())
}

func TestDescribe(t *testing.T) {
	s := chain(t)
	require.NoError(t, s.UpdateCategory("B", "B1", "segundo nível"))

	info, ok := s.Describe("b")
	require.True(t, ok)
	assert.Equal(t, CategoryInfo{Name: "B", Code: "B1", Description: "segundo nível", Parent: "A"}, info)

	info, ok = s.Describe("root")
	require.True(t, ok)
	assert.Empty(t, info.Parent)

	_, ok = s.Describe("missing")
	assert.False(t, ok)
	_, ok = NewCatalogService().Describe("root")
	assert.False(t, ok)
}

func TestDefineSubcategoryCreatesMissingChild(t *testing.T) {
	s := NewCatalogService()
	s.InsertCategory("root", "", "")

	require.NoError(t, s.DefineSubcategory("ROOT", "Novo"))

	child, ok := s.FindCategory("novo")
	require.True(t, ok)
	assert.Same(t, s.Root(), child.Parent())
	assert.Empty(t, child.Code)
	assert.Empty(t, child.Description)
}

func TestDefineSubcategoryParentNotFound(t *testing.T) {
	s := NewCatalogService()
	s.InsertCategory("root", "", "")

	err := s.DefineSubcategory("ghost", "child")
	assert.ErrorIs(t, err, ErrParentNotFound)
	_, ok := s.FindCategory("child")
	assert.False(t, ok)

	empty := NewCatalogService()
	assert.ErrorIs(t, empty.DefineSubcategory("a", "b"), ErrParentNotFound)
}

func TestDefineSubcategoryMovesExistingChild(t *testing.T) {
	s := NewCatalogService()
	s.InsertCategory("root", "", "")
	s.InsertCategory("A", "", "")
	old := s.InsertCategory("Old", "", "")
	require.NoError(t, s.DefineSubcategory("Old", "B"))
	b, _ := s.FindCategory("B")
	require.NoError(t, s.DefineSubcategory("B", "B1"))

	require.NoError(t, s.DefineSubcategory("A", "B"))

	a, _ := s.FindCategory("A")
	assert.Equal(t, 1, countByName(s.Root(), "B"))
	assert.Same(t, a, b.Parent())
	assert.Empty(t, old.Children())
	assert.Equal(t, "root > A > B > B1", mustPath(t, s, "B1"))
}

func TestDefineSubcategoryRefusesCycle(t *testing.T) {
	s := chain(t)

	err := s.DefineSubcategory("C", "A")
	assert.ErrorIs(t, err, ErrCycle)
	assert.Equal(t, "root > A > B > C", mustPath(t, s, "C"))

	assert.ErrorIs(t, s.DefineSubcategory("B", "b"), ErrCycle)
	assert.ErrorIs(t, s.DefineSubcategory("A", "root"), ErrCycle)
	assert.Equal(t, "root > A > B", mustPath(t, s, "B"))
}

func TestAssociateProduct(t *testing.T) {
	s := NewCatalogService()
	s.InsertCategory("root", "", "")
	p := domain.NewProduct("Mouse", "M1", decimal.NewFromInt(10), "Logi")

	require.NoError(t, s.AssociateProduct("ROOT", p))
	assert.Equal(t, []*domain.Product{p}, s.Root().Products())
	assert.Equal(t, []*domain.Product{p}, s.Products())
}

func TestAssociateProductRegistryKeepsDuplicates(t *testing.T) {
	s := NewCatalogService()
	s.InsertCategory("root", "", "")
	p := s.InsertProduct("Mouse", "M1", decimal.NewFromInt(10), "Logi")

	require.NoError(t, s.AssociateProduct("root", p))
	assert.Equal(t, []*domain.Product{p, p}, s.Products())
}

func TestAssociateNilProductFails(t *testing.T) {
	s := NewCatalogService()
	s.InsertCategory("root", "", "")

	err := s.AssociateProduct("root", nil)
	assert.ErrorIs(t, err, ErrNilProduct)
	assert.Empty(t, s.Root().Products())
	assert.Empty(t, s.Products())
}

func TestAssociateProductCategoryNotFound(t *testing.T) {
	s := NewCatalogService()
	s.InsertCategory("root", "", "")
	p := domain.NewProduct("Mouse", "M1", decimal.NewFromInt(10), "Logi")

	err := s.AssociateProduct("ghost", p)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.Empty(t, s.Products())
}

func TestUpdateCategory(t *testing.T) {
	s := chain(t)

	require.NoError(t, s.UpdateCategory("b", "B-01", "segundo nível"))
	b, _ := s.FindCategory("B")
	assert.Equal(t, "B-01", b.Code)
	assert.Equal(t, "segundo nível", b.Description)

	assert.ErrorIs(t, s.UpdateCategory("ghost", "", ""), ErrCategoryNotFound)
}

func mustPath(t *testing.T, s *CatalogService, name string) string {
	t.Helper()
	path, err := s.Path(name)
	require.NoError(t, err)
	return path
}

func TestFullPathOf(t *testing.T) {
	s := chain(t)

	assert.Equal(t, "Caminho completo: root > A > B > C", s.FullPathOf("C"))
	assert.Equal(t, "Caminho completo: root", s.FullPathOf("root"))
	assert.Equal(t, "Categoria (Z) não encontrada", s.FullPathOf("Z"))

	_, err := s.Path("Z")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestFullPathOfScenario(t *testing.T) {
	s := NewCatalogService()
	s.InsertCategory("Eletrônicos", "", "")
	require.NoError(t, s.DefineSubcategory("Eletrônicos", "Computadores"))
	require.NoError(t, s.DefineSubcategory("Computadores", "Notebooks"))

	assert.Equal(t, "Caminho completo: Eletrônicos > Computadores > Notebooks", s.FullPathOf("Notebooks"))
}

func TestRemoveRootFails(t *testing.T) {
	s := chain(t)
	before, err := s.ListTree()
	require.NoError(t, err)

	assert.ErrorIs(t, s.RemoveCategory("ROOT"), ErrCannotRemoveRoot)

	after, err := s.ListTree()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRemoveCategoryDropsSubtree(t *testing.T) {
	s := chain(t)
	s.InsertCategory("Other", "", "")
	p := s.InsertProduct("Mouse", "M1", decimal.NewFromInt(10), "Logi")
	require.NoError(t, s.AssociateProduct("C", p))

	require.NoError(t, s.RemoveCategory("a"))

	for _, name := range []string{"A", "B", "C"} {
		_, ok := s.FindCategory(name)
		assert.False(t, ok, name)
	}
	_, ok := s.FindCategory("Other")
	assert.True(t, ok)
	assert.Equal(t, []*domain.Product{p, p}, s.Products())
}

func TestRemoveCategoryNotFound(t *testing.T) {
	s := chain(t)
	assert.ErrorIs(t, s.RemoveCategory("ghost"), ErrCategoryNotFound)
	assert.ErrorIs(t, NewCatalogService().RemoveCategory("x"), ErrCategoryNotFound)
}

func TestListTree(t *testing.T) {
	s := NewCatalogService()
	s.InsertCategory("Eletrônicos", "E1", "")
	require.NoError(t, s.DefineSubcategory("Eletrônicos", "Computadores"))
	require.NoError(t, s.DefineSubcategory("Computadores", "Notebooks"))
	s.InsertCategory("Celulares", "C9", "")
	require.NoError(t, s.AssociateProduct("Notebooks",
		domain.NewProduct("Ultrabook", "U1", decimal.RequireFromString("4999.9"), "Acme")))
	require.NoError(t, s.AssociateProduct("Eletrônicos",
		domain.NewProduct("Cabo", "K1", decimal.NewFromInt(15), "Genérico")))

	lines, err := s.ListTree()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"[Raiz] Categoria: Eletrônicos (Cód: E1)",
		"    |-- Categoria: Computadores (Cód: )",
		"        |-- Categoria: Notebooks (Cód: )",
		"            -> [Produto] Ultrabook | R$ 4999.90 | Marca: Acme",
		"    |-- Categoria: Celulares (Cód: C9)",
		"    -> [Produto] Cabo | R$ 15.00 | Marca: Genérico",
	}, lines)
}

func TestNavigationRoutes(t *testing.T) {
	s := chain(t)
	s.InsertCategory("Other", "", "")
	require.NoError(t, s.DefineSubcategory("A", "B2"))

	routes, err := s.NavigationRoutes()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Rota: Caminho completo: root > A > B > C",
		"Rota: Caminho completo: root > A > B2",
		"Rota: Caminho completo: root > Other",
	}, routes)
}

func TestNavigationRoutesDuplicateLeafUsesOwnPath(t *testing.T) {
	s := chain(t)
	other := s.InsertCategory("Other", "", "")
	other.AddChild(domain.NewCategory("c", "", ""))

	routes, err := s.NavigationRoutes()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Rota: Caminho completo: root > A > B > C",
		"Rota: Caminho completo: root > Other > c",
	}, routes)
	// lookup by name still resolves to the first match
	assert.Equal(t, "Caminho completo: root > A > B > C", s.FullPathOf("c"))
}

func TestNavigationRoutesSingleRoot(t *testing.T) {
	s := NewCatalogService()
	s.InsertCategory("root", "", "")

	routes, err := s.NavigationRoutes()
	require.NoError(t, err)
	assert.Equal(t, []string{"Rota: Caminho completo: root"}, routes)
}

func TestEmptyCatalogListings(t *testing.T) {
	s := NewCatalogService()

	lines, err := s.ListTree()
	assert.True(t, errors.Is(err, ErrEmptyCatalog))
	assert.Nil(t, lines)

	routes, err := s.NavigationRoutes()
	assert.True(t, errors.Is(err, ErrEmptyCatalog))
	assert.Nil(t, routes)
}

func TestFailuresAreLogged(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	s := chain(t)
	require.Error(t, s.RemoveCategory("root"))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, log.WarnLevel, entry.Level)
	assert.Contains(t, entry.Message, "root")
}

func TestConcurrentMutationsKeepTreeConsistent(t *testing.T) {
	s := NewCatalogService()
	s.InsertCategory("root", "", "")
	s.InsertCategory("A", "", "")
	s.InsertCategory("B", "", "")
	require.NoError(t, s.DefineSubcategory("A", "moving"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			target := "A"
			if i%2 == 0 {
				target = "B"
			}
			assert.NoError(t, s.DefineSubcategory(target, "moving"))
		}(i)
		go func() {
			defer wg.Done()
			_, _ = s.ListTree()
			_, _ = s.NavigationRoutes()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, countByName(s.Root(), "moving"))
	moving, _ := s.FindCategory("moving")
	assert.Contains(t, moving.Parent().Children(), moving)
}
