package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"catalog/manager/internal/domain"
	"catalog/manager/internal/service"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const menu = `
0 - Sair
1 - Inserir Categoria
2 - Inserir Produto
3 - Definir Subcategoria (pai -> filho)
4 - Associar Produto à Categoria
5 - Buscar Categoria pelo Nome
6 - Remover Categoria
7 - Listar Árvore de Categorias
8 - Gerar Árvore de Navegação (folhas)

Digite a opção desejada:`

// Catalog is the set of catalog operations reachable from the menu
type Catalog interface {
	InsertCategory(name, code, description string) *domain.Category
	InsertProduct(name, code string, price decimal.Decimal, brand string) *domain.Product
	DefineSubcategory(parentName, childName string) error
	AssociateProduct(categoryName string, product *domain.Product) error
	FullPathOf(name string) string
	RemoveCategory(name string) error
	ListTree() ([]string, error)
	NavigationRoutes() ([]string, error)
}

// errInputClosed ends the session when stdin reaches EOF
var errInputClosed = errors.New("input closed")

type Shell struct {
	catalog Catalog
	in      io.Reader
	out     io.Writer
	banner  bool

	lines chan string
}

func New(catalog Catalog, in io.Reader, out io.Writer, banner bool) *Shell {
	return &Shell{
		catalog: catalog,
		in:      in,
		out:     out,
		banner:  banner,
	}
}

// Run shows the menu until the user picks 0, the input ends or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	s.lines = make(chan string)
	done := make(chan struct{})
	defer close(done)
	go s.scan(done)

	if s.banner {
		s.println("=== CATÁLOGO DE CATEGORIAS E PRODUTOS ===")
	}

	for {
		s.println(menu)

		line, err := s.readLine(ctx)
		if err != nil {
			return s.finish(err)
		}

		option, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || option < 0 || option > 8 {
			s.println("Opção inválida! Informe um número entre 0 e 8: ")
			continue
		}

		if option == 0 {
			s.println("\n=== PROGRAMA ENCERRADO ===")
			return nil
		}

		if err := s.dispatch(ctx, option); err != nil {
			return s.finish(err)
		}
	}
}

func (s *Shell) finish(err error) error {
	switch {
	case errors.Is(err, errInputClosed):
		log.Debug("Input closed, leaving menu")
		return nil
	case errors.Is(err, context.Canceled):
		log.Info("Menu interrupted")
		return nil
	default:
		return err
	}
}

// scan feeds s.lines until input ends or done closes. A goroutine parked in
// scanner.Scan cannot be interrupted, so after Run returns it lingers until
// the reader yields or hits EOF; with os.Stdin that is process exit.
func (s *Shell) scan(done <-chan struct{}) {
	defer close(s.lines)
	scanner := bufio.NewScanner(s.in)
	for scanner.Scan() {
		select {
		case s.lines <- scanner.Text():
		case <-done:
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.Errorf("Failed to read input: %v", err)
	}
}

func (s *Shell) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			return "", errInputClosed
		}
		return line, nil
	}
}

func (s *Shell) prompt(ctx context.Context, label string) (string, error) {
	s.println(label)
	line, err := s.readLine(ctx)
	return strings.TrimSpace(line), err
}

// promptRequired asks again until a non-empty answer is given
func (s *Shell) promptRequired(ctx context.Context, label string) (string, error) {
	for {
		value, err := s.prompt(ctx, label)
		if err != nil || value != "" {
			return value, err
		}
		s.println("ERRO: o valor não pode ser vazio.")
	}
}

// promptPrice asks again until a non-negative number is given.
// A decimal comma is accepted.
func (s *Shell) promptPrice(ctx context.Context, label string) (decimal.Decimal, error) {
	for {
		value, err := s.prompt(ctx, label)
		if err != nil {
			return decimal.Zero, err
		}

		price, err := decimal.NewFromString(strings.Replace(value, ",", ".", 1))
		if err != nil {
			s.println("Entrada inválida! Digite um número (ex: 10.50).")
			continue
		}
		if price.IsNegative() {
			s.println("ERRO: Entrada invalida")
			continue
		}
		return price, nil
	}
}

func (s *Shell) dispatch(ctx context.Context, option int) error {
	switch option {
	case 1:
		return s.insertCategory(ctx)
	case 2:
		return s.insertProduct(ctx)
	case 3:
		return s.defineSubcategory(ctx)
	case 4:
		return s.associateProduct(ctx)
	case 5:
		return s.searchCategory(ctx)
	case 6:
		return s.removeCategory(ctx)
	case 7:
		s.listTree()
	case 8:
		s.navigationRoutes()
	}
	return nil
}

func (s *Shell) insertCategory(ctx context.Context) error {
	s.println("\n=== Inserir Categoria ===")
	name, err := s.promptRequired(ctx, "Insira o nome da categoria: ")
	if err != nil {
		return err
	}
	code, err := s.prompt(ctx, "Insira o código da categoria: ")
	if err != nil {
		return err
	}
	description, err := s.prompt(ctx, "Insira a descrição da categoria: ")
	if err != nil {
		return err
	}

	s.catalog.InsertCategory(name, code, description)
	s.println("Categoria inserida com sucesso")
	return nil
}

func (s *Shell) insertProduct(ctx context.Context) error {
	s.println("\n=== Inserir Produto ===")
	name, code, price, brand, err := s.readProduct(ctx)
	if err != nil {
		return err
	}

	s.catalog.InsertProduct(name, code, price, brand)
	s.println("Produto inserido com sucesso")
	return nil
}

func (s *Shell) readProduct(ctx context.Context) (name, code string, price decimal.Decimal, brand string, err error) {
	if name, err = s.promptRequired(ctx, "Insira o nome do produto: "); err != nil {
		return
	}
	if code, err = s.prompt(ctx, "Insira o código do produto: "); err != nil {
		return
	}
	if price, err = s.promptPrice(ctx, "Insira o preço do produto: "); err != nil {
		return
	}
	brand, err = s.prompt(ctx, "Insira a marca do produto: ")
	return
}

func (s *Shell) defineSubcategory(ctx context.Context) error {
	s.println("\n=== Definir Subcategoria ===")
	parent, err := s.promptRequired(ctx, "Nome da categoria PAI: ")
	if err != nil {
		return err
	}
	child, err := s.promptRequired(ctx, "Nome da categoria FILHA: ")
	if err != nil {
		return err
	}

	if err := s.catalog.DefineSubcategory(parent, child); err != nil {
		s.printf("Falha ao definir subcategoria: %s\n", describe(err))
		return nil
	}
	s.printf("Subcategoria '%s' definida como filha de '%s'\n", child, parent)
	return nil
}

func (s *Shell) associateProduct(ctx context.Context) error {
	s.println("\n=== Associar Produto à Categoria ===")
	category, err := s.promptRequired(ctx, "Nome da categoria: ")
	if err != nil {
		return err
	}
	name, code, price, brand, err := s.readProduct(ctx)
	if err != nil {
		return err
	}

	product := domain.NewProduct(name, code, price, brand)
	if err := s.catalog.AssociateProduct(category, product); err != nil {
		s.printf("Falha ao associar produto: %s\n", describe(err))
		return nil
	}
	s.printf("Produto '%s' associado à categoria '%s'\n", name, category)
	return nil
}

func (s *Shell) searchCategory(ctx context.Context) error {
	name, err := s.promptRequired(ctx, "\nInforme o nome da categoria: ")
	if err != nil {
		return err
	}
	s.println(s.catalog.FullPathOf(name))
	return nil
}

func (s *Shell) removeCategory(ctx context.Context) error {
	s.println("\n=== Remover Categoria ===")
	name, err := s.promptRequired(ctx, "Nome da categoria: ")
	if err != nil {
		return err
	}

	if err := s.catalog.RemoveCategory(name); err != nil {
		s.printf("Erro: %s\n", describe(err))
		return nil
	}
	s.printf("Categoria '%s' removida com sucesso.\n", name)
	return nil
}

func (s *Shell) listTree() {
	lines, err := s.catalog.ListTree()
	if err != nil {
		s.println("\n[AVISO] O catálogo está vazio (sem categorias).")
		return
	}

	s.println("\n=== LISTAGEM DA ÁRVORE HIERÁRQUICA E PRODUTOS ===")
	for _, line := range lines {
		s.println(line)
	}
	s.println("=================================================")
}

func (s *Shell) navigationRoutes() {
	routes, err := s.catalog.NavigationRoutes()
	if err != nil {
		s.println("\n[AVISO] O catálogo está vazio. Nenhuma rota de navegação disponível.")
		return
	}

	s.println("\n=== Árvore de Navegação (Rotas Finais) ===")
	for _, route := range routes {
		s.println(route)
	}
	s.println("==========================================")
}

// describe turns catalog errors into the messages shown to the user
func describe(err error) string {
	switch {
	case errors.Is(err, service.ErrParentNotFound):
		return "categoria pai não encontrada"
	case errors.Is(err, service.ErrCategoryNotFound):
		return "categoria não encontrada"
	case errors.Is(err, service.ErrNilProduct):
		return "produto não pode ser nulo"
	case errors.Is(err, service.ErrCannotRemoveRoot):
		return "não é possível remover a categoria raiz"
	case errors.Is(err, service.ErrCycle):
		return "uma categoria não pode ser filha de si mesma ou de um descendente"
	default:
		return err.Error()
	}
}

func (s *Shell) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Shell) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}
