package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/database"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var ErrInvalidIdentifier = errors.New("invalid Cypher identifier")

// Mapping describes how the interaction graph is stored in Neo4j.
// Every field is interpolated into Cypher and must pass Validate first.
type Mapping struct {
	NodeLabel        string `json:"nodeLabel,omitempty" yaml:"node_label"`
	IDProperty       string `json:"idProperty,omitempty" yaml:"id_property"`
	CategoryProperty string `json:"categoryProperty,omitempty" yaml:"category_property"`
	RelationshipType string `json:"relationshipType,omitempty" yaml:"relationship_type"`
	TypeProperty     string `json:"typeProperty,omitempty" yaml:"type_property"`
}

func DefaultMapping() Mapping {
	return Mapping{
		NodeLabel:        "Entity",
		IDProperty:       "id",
		CategoryProperty: "category",
		RelationshipType: "INTERACTS",
		TypeProperty:     "type",
	}
}

// WithDefaults fills empty fields from DefaultMapping.
func (m Mapping) WithDefaults() Mapping {
	d := DefaultMapping()
	if m.NodeLabel == "" {
		m.NodeLabel = d.NodeLabel
	}
	if m.IDProperty == "" {
		m.IDProperty = d.IDProperty
	}
	if m.CategoryProperty == "" {
		m.CategoryProperty = d.CategoryProperty
	}
	if m.RelationshipType == "" {
		m.RelationshipType = d.RelationshipType
	}
	if m.TypeProperty == "" {
		m.TypeProperty = d.TypeProperty
	}
	return m
}

func (m Mapping) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"nodeLabel", m.NodeLabel},
		{"idProperty", m.IDProperty},
		{"categoryProperty", m.CategoryProperty},
		{"relationshipType", m.RelationshipType},
		{"typeProperty", m.TypeProperty},
	}
	for _, f := range fields {
		if !identifierPattern.MatchString(f.value) {
			return fmt.Errorf("%w for %s: %q", ErrInvalidIdentifier, f.name, f.value)
		}
	}
	return nil
}

// NodeQuery returns every mapped node with its id and category.
func (m Mapping) NodeQuery() string {
	return fmt.Sprintf("MATCH (n:%s) RETURN n.%s AS id, n.%s AS category",
		m.NodeLabel, m.IDProperty, m.CategoryProperty)
}

// RelationshipQuery returns each mapped relationship once, ignoring direction.
func (m Mapping) RelationshipQuery() string {
	return fmt.Sprintf("MATCH (a:%[1]s)-[r:%[2]s]-(b:%[1]s) WHERE a.%[3]s < b.%[3]s RETURN a.%[3]s AS a, b.%[3]s AS b, r.%[4]s AS type",
		m.NodeLabel, m.RelationshipType, m.IDProperty, m.TypeProperty)
}

// CategoryCountQuery counts mapped nodes per category.
func (m Mapping) CategoryCountQuery() string {
	return fmt.Sprintf("MATCH (n:%s) RETURN n.%s AS category, count(*) AS count ORDER BY category",
		m.NodeLabel, m.CategoryProperty)
}

// TypeCountQuery counts mapped relationships per interaction type. Each stored relationship counts once.
func (m Mapping) TypeCountQuery() string {
	return fmt.Sprintf("MATCH (:%[1]s)-[r:%[2]s]->(:%[1]s) RETURN r.%[3]s AS type, count(*) AS count ORDER BY type",
		m.NodeLabel, m.RelationshipType, m.TypeProperty)
}

// Load reads the whole mapped graph from Neo4j into a fresh Store.
// Nodes without an id are ignored; relationships between the same pair collapse onto one edge.
func Load(ctx context.Context, db database.Service, mapping Mapping) (*Store, error) {
	mapping = mapping.WithDefaults()
	if err := mapping.Validate(); err != nil {
		return nil, err
	}

	nodeRecords, err := db.ExecuteReadQuery(ctx, mapping.NodeQuery(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load nodes: %w", err)
	}
	store := NewStore()
	for _, record := range nodeRecords {
		id := stringValue(record, "id")
		if id == "" {
			continue
		}
		if err := store.AddNode(id, stringValue(record, "category")); err != nil {
			return nil, fmt.Errorf("failed to add node %q: %w", id, err)
		}
	}

	relRecords, err := db.ExecuteReadQuery(ctx, mapping.RelationshipQuery(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load relationships: %w", err)
	}
	for _, record := range relRecords {
		a, b := stringValue(record, "a"), stringValue(record, "b")
		if a == "" || b == "" || a == b {
			continue
		}
		if err := store.AddEdge(a, b, stringValue(record, "type")); err != nil {
			return nil, fmt.Errorf("failed to add edge %q-%q: %w", a, b, err)
		}
	}

	slog.Debug("graph loaded from neo4j",
		"database", db.GetDatabaseName(),
		"nodes", store.NodeCount(),
		"edges", store.EdgeCount())
	return store, nil
}

func stringValue(record *neo4j.Record, key string) string {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(t)
	}
}
