package playbooks

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

const defaultCategory = "general"

// ErrNoPlaybooks is returned by NewRegistry when the filesystem holds no playbook files.
var ErrNoPlaybooks = errors.New("no playbooks found")

var validParameterTypes = map[string]bool{
	"string": true, "integer": true, "number": true,
	"boolean": true, "array": true, "object": true,
}

// Load reads every .yaml/.yml file under fsys and returns the playbooks sorted by name.
// Duplicate names across files are rejected.
func Load(fsys fs.FS) ([]*Playbook, error) {
	var playbooks []*Playbook
	seen := make(map[string]string)

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAML(d.Name()) {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read playbook %s: %w", p, err)
		}

		pb, err := parsePlaybook(data, p)
		if err != nil {
			return err
		}
		if prev, ok := seen[pb.Name]; ok {
			return fmt.Errorf("duplicate playbook name %q in %s and %s", pb.Name, prev, p)
		}
		seen[pb.Name] = p

		playbooks = append(playbooks, pb)
		slog.Debug("loaded playbook", "name", pb.Name, "category", pb.Category, "path", p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load playbooks: %w", err)
	}

	sort.Slice(playbooks, func(i, j int) bool { return playbooks[i].Name < playbooks[j].Name })
	return playbooks, nil
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

func parsePlaybook(data []byte, p string) (*Playbook, error) {
	var pb Playbook
	if err := yaml.Unmarshal(data, &pb); err != nil {
		return nil, fmt.Errorf("failed to parse playbook %s: %w", p, err)
	}
	pb.Category = categoryFromPath(p)

	if pb.Name == "" {
		return nil, fmt.Errorf("playbook name is required in %s", p)
	}
	if pb.Description == "" {
		return nil, fmt.Errorf("playbook description is required in %s", p)
	}
	if err := validateParameters(pb.Parameters); err != nil {
		return nil, fmt.Errorf("invalid parameters in %s: %w", p, err)
	}
	if pb.ReferenceCypher != "" {
		if _, err := parseCypher(pb.Name, pb.ReferenceCypher); err != nil {
			return nil, fmt.Errorf("invalid reference_cypher in %s: %w", p, err)
		}
	}
	return &pb, nil
}

func parseCypher(name, text string) (*template.Template, error) {
	return template.New(name).Option("missingkey=error").Parse(text)
}

func validateParameters(params []Parameter) error {
	names := make(map[string]bool, len(params))
	for i, param := range params {
		if param.Name == "" {
			return fmt.Errorf("parameter[%d] name is required", i)
		}
		if names[param.Name] {
			return fmt.Errorf("duplicate parameter name '%s'", param.Name)
		}
		names[param.Name] = true

		if param.Type != "" && !validParameterTypes[param.Type] {
			return fmt.Errorf("parameter '%s' has invalid type '%s'", param.Name, param.Type)
		}
	}
	return nil
}

// categoryFromPath returns the top-level directory of p, e.g. "fraud/shared-device.yaml" -> "fraud".
func categoryFromPath(p string) string {
	dir := path.Dir(path.Clean(p))
	if dir == "." {
		return defaultCategory
	}
	first, _, _ := strings.Cut(dir, "/")
	return first
}
