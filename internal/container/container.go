package container

import (
	"context"
	"fmt"
	"io"

	"catalog/manager/internal/config"
	"catalog/manager/internal/importer"
	"catalog/manager/internal/service"
	"catalog/manager/internal/shell"

	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config   *config.Config
	Catalog  *service.CatalogService
	Importer *importer.Importer
	Shell    *shell.Shell

	fetcher importer.Fetcher
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config, in io.Reader, out io.Writer) *Container {
	catalog := service.NewCatalogService()
	fetcher := importer.NewFetcher(cfg.Import)

	return &Container{
		Config:   cfg,
		Catalog:  catalog,
		Importer: importer.NewImporter(catalog, fetcher, cfg.Import.MaxWorkers),
		Shell:    shell.New(catalog, in, out, cfg.Shell.Banner),
		fetcher:  fetcher,
	}
}

// Run seeds the catalog from the configured sources, then hands over to the menu
func (c *Container) Run(ctx context.Context) error {
	if len(c.Config.Import.Sources) > 0 {
		if _, err := c.Importer.Import(ctx, c.Config.Import.Sources); err != nil {
			return fmt.Errorf("failed to import catalog sources: %w", err)
		}
	}

	return c.Shell.Run(ctx)
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Debug("Shutting down container...")

	if err := c.fetcher.Close(); err != nil {
		return fmt.Errorf("failed to close fetcher: %w", err)
	}
	return nil
}
