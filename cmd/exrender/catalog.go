package main

import (
	"fmt"

	exrender "github.com/alnah/go-exrender"
	"github.com/alnah/go-exrender/internal/hints"
)

// runCatalog lists catalog entries or shows the entry for one code.
func runCatalog(args []string, env *Environment) error {
	flags, positional, err := parseCatalogFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}

	cfg, err := loadConfig(flags.common.config, loadEnvConfig())
	if err != nil {
		return err
	}
	if flags.catalog != "" {
		cfg.Catalog.Path = flags.catalog
	}
	if flags.registry != "" {
		cfg.Catalog.Registry = flags.registry
	}
	if cfg.Catalog.Path == "" {
		return fmt.Errorf("%w: no catalog given (--catalog or catalog.path)", ErrNoInput)
	}

	var registry exrender.CodeRegistry
	if cfg.Catalog.Registry != "" {
		set, err := exrender.LoadCodeSet(cfg.Catalog.Registry)
		if err != nil {
			return err
		}
		registry = set
	}

	catalog, err := exrender.LoadCatalog(cfg.Catalog.Path, registry)
	if err != nil {
		return err
	}

	if len(positional) == 0 {
		if catalog.Len() == 0 {
			return exrender.ErrEmptyCatalog
		}
		if !flags.common.quiet {
			fmt.Fprintf(env.Stdout, "%-10s %-10s %-7s %s\n", "CODE", "CHOSEN", "NIVEAU", "TITRE")
		}
		for _, e := range catalog.Entries() {
			printEntry(env, e)
		}
		return nil
	}

	code := positional[0]
	_, entry, ok := catalog.Find(code)
	if !ok {
		return fmt.Errorf("%w: %q%s", exrender.ErrUnknownCode, code, hints.ForUnknownCode(chosenCodes(catalog)))
	}
	printEntry(env, entry)
	return nil
}

func printEntry(env *Environment, e exrender.CatalogEntry) {
	fmt.Fprintf(env.Stdout, "%-10s %-10s %-7s %s\n", e.Code, e.Chosen(), e.Niveau, e.Titre)
}

func chosenCodes(c *exrender.Catalog) []string {
	entries := c.Entries()
	codes := make([]string, len(entries))
	for i, e := range entries {
		codes[i] = e.Chosen()
	}
	return codes
}
