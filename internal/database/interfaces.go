package database

//go:generate mockgen -destination=mocks/mock_database.go -package=database_mocks -typed github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/database Service
import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Service is the subset of Neo4j access the tools and graph loader need.
type Service interface {
	VerifyConnectivity(ctx context.Context) error
	ExecuteReadQuery(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error)
	ExecuteWriteQuery(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error)
	Neo4jRecordsToJSON(records []*neo4j.Record) (string, error)
	GetDatabaseName() string
	Close(ctx context.Context) error
}
