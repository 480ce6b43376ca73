package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Prefabs maps a prefab name to default object properties. Map objects
// pick one up through a "prefab" property or their class.
type Prefabs map[string]map[string]string

// LoadPrefabs reads a YAML prefab table:
//
//	goblin:
//	  enemy: true
//	  combat: 4
//	  sprite: goblin
func LoadPrefabs(path string) (Prefabs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prefabs %s: %w", path, err)
	}
	var raw map[string]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse prefabs %s: %w", path, err)
	}

	prefabs := make(Prefabs, len(raw))
	for name, props := range raw {
		out := make(map[string]string, len(props))
		for k, v := range props {
			if v == nil {
				out[k] = ""
				continue
			}
			out[k] = fmt.Sprint(v)
		}
		prefabs[name] = out
	}
	return prefabs, nil
}
