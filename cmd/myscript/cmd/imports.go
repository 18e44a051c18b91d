package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/myscript/internal/hostdemo"
	"github.com/cwbudde/myscript/pkg/myscript"
	"github.com/goccy/go-yaml"
)

// importManifest is the --imports YAML shape: a flat list of names picked
// from hostdemo's catalogue.
//
//	expose:
//	  - PrintLn
//	  - AddInt
type importManifest struct {
	Expose []string `yaml:"expose"`
}

// loadImportManifest reads and resolves an --imports file into the
// ImportedSymbol set CompileWithImports expects. An empty path yields no
// imports rather than an error, since --imports is optional.
func loadImportManifest(path string) ([]myscript.ImportedSymbol, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var manifest importManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	catalogue := hostdemo.Catalogue()
	imports := make([]myscript.ImportedSymbol, 0, len(manifest.Expose))
	for _, name := range manifest.Expose {
		d, ok := catalogue[name]
		if !ok {
			return nil, fmt.Errorf("unknown host function %q (available: %s)", name, availableNames(catalogue))
		}
		imports = append(imports, myscript.ImportedSymbol{
			Name:           d.Name,
			Address:        d.Address,
			Kind:           myscript.ImportFunction,
			ReturnType:     d.ReturnType,
			ParamTypes:     d.ParamTypes,
			RawStringParam: d.RawStringParam,
			CallConv:       myscript.CDecl,
		})
	}
	return imports, nil
}

func availableNames(catalogue map[string]hostdemo.Descriptor) string {
	names := make([]string, 0, len(catalogue))
	for name := range catalogue {
		names = append(names, name)
	}
	return fmt.Sprint(names)
}
