// Package driver owns one compilation: it loads sources, runs the
// analysis passes in their fixed order and assembles the results. The
// passes themselves are single-threaded per unit; the driver adds
// parallelism only across independent units.
package driver

import (
	"strata/internal/ast"
	"strata/internal/config"
	"strata/internal/diag"
	"strata/internal/infer"
	"strata/internal/parser"
	"strata/internal/refs"
	"strata/internal/registry"
	"strata/internal/source"
	"strata/internal/symbols"
	"strata/internal/symtab"
	"strata/internal/types"
)

// Unit is the analysis result of one source file.
type Unit struct {
	Path      string
	FileID    source.FileID
	Files     *source.FileSet
	Root      *ast.Node
	Symbols   *symbols.Table
	Refs      *refs.Result
	Registry  *registry.Registry
	Inference *infer.Result
	Table     *symtab.Table
	Bag       *diag.Bag
	// FromCache marks a unit restored from the disk cache: diagnostics
	// only, no trees or tables.
	FromCache bool
}

// Failed reports whether the unit's diagnostics should fail the run
// under the given configuration.
func (u *Unit) Failed(cfg config.Config) bool {
	if u.Bag.HasErrors() {
		return true
	}
	return cfg.WarningsAsErrors && u.Bag.HasWarnings()
}

// Context carries the state shared by every unit of one invocation.
type Context struct {
	Files  *source.FileSet
	Config config.Config
	Cache  *DiskCache // nil disables caching
}

// NewContext builds a driver context over a fresh file set.
func NewContext(cfg config.Config) *Context {
	return &Context{Files: source.NewFileSet(), Config: cfg}
}

// AnalyzeVirtual analyzes an in-memory source, for tests and stdin.
func (c *Context) AnalyzeVirtual(name string, src []byte) *Unit {
	id := c.Files.AddVirtual(name, src)
	return c.analyze(id, name)
}

// AnalyzeFile loads and analyzes one file from disk, consulting the
// disk cache first when one is attached.
func (c *Context) AnalyzeFile(path string) (*Unit, error) {
	id, err := c.Files.Load(path)
	if err != nil {
		return nil, err
	}
	file := c.Files.Get(id)
	key := cacheKey(file, c.Config)

	if c.Cache != nil {
		var payload Payload
		if ok, err := c.Cache.Get(key, &payload); err == nil && ok {
			if u := payloadToUnit(&payload, path, id); u != nil {
				u.Files = c.Files
				return u, nil
			}
		}
	}

	u := c.analyze(id, path)
	if c.Cache != nil {
		// A failed write never fails the analysis.
		_ = c.Cache.Put(key, unitToPayload(u))
	}
	return u, nil
}

// analyze runs the pass pipeline over one parsed file. The order is
// fixed: scopes depend on the tree, references and the registry on the
// scopes, inference on the registry, the facade on everything.
func (c *Context) analyze(id source.FileID, path string) *Unit {
	bag := diag.NewBag(c.Config.MaxDiagnostics)
	reporter := &diag.BagReporter{Bag: bag}

	root := parser.Parse(c.Files.Get(id), reporter)
	syms := symbols.Build(root, c.Config, source.NewInterner(), reporter)
	rs := refs.Collect(root, syms)
	reg := registry.Build(root, syms, types.NewInterner(), reporter)
	inf := infer.Run(root, syms, reg, reporter)

	bag.Sort()
	bag.Dedup()
	return &Unit{
		Path:      path,
		FileID:    id,
		Files:     c.Files,
		Root:      root,
		Symbols:   syms,
		Refs:      rs,
		Registry:  reg,
		Inference: inf,
		Table:     symtab.New(syms, rs, reg, inf),
		Bag:       bag,
	}
}
