package playbooks

// Playbook is the YAML definition of an investigation guidance tool.
type Playbook struct {
	// Name is the MCP tool name, e.g. "investigate-shared-device".
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// Intent tells the agent when the playbook applies.
	Intent string `yaml:"intent,omitempty"`

	Signals []Signal `yaml:"signals,omitempty"`

	// ReferenceCypher is a text/template rendered against the configured graph.Mapping,
	// so {{.NodeLabel}} and {{.RelationshipType}} resolve to the live schema.
	ReferenceCypher string `yaml:"reference_cypher,omitempty"`

	// FollowUp names the tools the agent should call next.
	FollowUp []string `yaml:"follow_up,omitempty"`

	Parameters []Parameter `yaml:"parameters,omitempty"`

	// Category is the first directory of the playbook's path, not read from YAML.
	Category string `yaml:"-"`
}

// Signal is one structural pattern a playbook looks for.
type Signal struct {
	// Entity is the node category the signal centres on (user, device, ip).
	Entity string `yaml:"entity"`

	// SharedWith lists the categories that unusually many entities attach to.
	SharedWith []string `yaml:"shared_with,omitempty"`

	Anomaly string `yaml:"anomaly"`
}

// Parameter is a typed Cypher parameter referenced by the playbook query.
type Parameter struct {
	Name string `yaml:"name"`

	// Type is a JSON Schema type: string, integer, number, boolean, array or object.
	Type string `yaml:"type"`

	Description string `yaml:"description,omitempty"`
	Default     any    `yaml:"default,omitempty"`
	Required    bool   `yaml:"required,omitempty"`
}
