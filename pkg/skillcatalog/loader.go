// pkg/skillcatalog/loader.go
package skillcatalog

import (
	"encoding/json"
	"fmt"
	"os"
)

type catalogFile struct {
	Version    string              `json:"version"`
	Categories map[string][]string `json:"categories"`
	Aliases    map[string]string   `json:"aliases"`
}

// Load reads a JSON catalog from path. The returned catalog is always
// usable: on a read, parse or content error the embedded default catalog is
// returned alongside the error, so callers can log the failure and keep
// starting up. The curated alias table is merged into file catalogs too,
// with file aliases taking precedence.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), err
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return Default(), fmt.Errorf("skill catalog %s: %w", path, err)
	}
	if len(file.Categories) == 0 {
		return Default(), fmt.Errorf("skill catalog %s: no categories", path)
	}

	aliases := make(map[string]string, len(defaultAliases)+len(file.Aliases))
	for alias, name := range defaultAliases {
		aliases[alias] = name
	}
	for alias, name := range file.Aliases {
		aliases[alias] = name
	}

	return New(file.Categories, aliases), nil
}
