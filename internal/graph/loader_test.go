package graph_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	db "github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/database/mocks"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/graph"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMapping_Validate(t *testing.T) {
	assert.NoError(t, graph.DefaultMapping().Validate())

	m := graph.DefaultMapping()
	m.NodeLabel = "Entity) DETACH DELETE n //"
	assert.ErrorIs(t, m.Validate(), graph.ErrInvalidIdentifier)

	m = graph.DefaultMapping()
	m.TypeProperty = "1type"
	assert.ErrorIs(t, m.Validate(), graph.ErrInvalidIdentifier)
}

func TestMapping_WithDefaults(t *testing.T) {
	m := graph.Mapping{NodeLabel: "Account"}.WithDefaults()
	assert.Equal(t, "Account", m.NodeLabel)
	assert.Equal(t, "id", m.IDProperty)
	assert.Equal(t, "INTERACTS", m.RelationshipType)
}

func TestMapping_CountQueries(t *testing.T) {
	m := graph.Mapping{NodeLabel: "Account", RelationshipType: "USED"}.WithDefaults()
	assert.Equal(t, "MATCH (n:Account) RETURN n.category AS category, count(*) AS count ORDER BY category", m.CategoryCountQuery())
	assert.Equal(t, "MATCH (:Account)-[r:USED]->(:Account) RETURN r.type AS type, count(*) AS count ORDER BY type", m.TypeCountQuery())
}

func TestLoad(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("builds store from node and relationship records", func(t *testing.T) {
		mockDB := db.NewMockService(ctrl)
		gomock.InOrder(
			mockDB.EXPECT().
				ExecuteReadQuery(gomock.Any(), "MATCH (n:Entity) RETURN n.id AS id, n.category AS category", gomock.Nil()).
				Return([]*neo4j.Record{
					{Keys: []string{"id", "category"}, Values: []any{"U001", "user"}},
					{Keys: []string{"id", "category"}, Values: []any{"D001", "device"}},
					{Keys: []string{"id", "category"}, Values: []any{"IP001", nil}},
					{Keys: []string{"id", "category"}, Values: []any{nil, "user"}},
				}, nil),
			mockDB.EXPECT().
				ExecuteReadQuery(gomock.Any(), gomock.Any(), gomock.Nil()).
				DoAndReturn(func(_ context.Context, cypher string, _ map[string]any) ([]*neo4j.Record, error) {
					assert.True(t, strings.HasPrefix(cypher, "MATCH (a:Entity)-[r:INTERACTS]-(b:Entity)"))
					return []*neo4j.Record{
						{Keys: []string{"a", "b", "type"}, Values: []any{"D001", "U001", "login"}},
						{Keys: []string{"a", "b", "type"}, Values: []any{"D001", "IP001", "access"}},
					}, nil
				}),
		)
		mockDB.EXPECT().GetDatabaseName().Return("neo4j").AnyTimes()

		store, err := graph.Load(context.Background(), mockDB, graph.Mapping{})
		require.NoError(t, err)

		assert.Equal(t, []string{"D001", "IP001", "U001"}, store.Nodes())
		assert.Equal(t, 2, store.EdgeCount())
		_, ok := store.NodeCategory("IP001")
		assert.False(t, ok)
		typ, ok := store.EdgeType("U001", "D001")
		assert.True(t, ok)
		assert.Equal(t, "login", typ)
	})

	t.Run("propagates query errors", func(t *testing.T) {
		mockDB := db.NewMockService(ctrl)
		mockDB.EXPECT().
			ExecuteReadQuery(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("connection refused"))

		_, err := graph.Load(context.Background(), mockDB, graph.DefaultMapping())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load nodes")
	})

	t.Run("rejects unsafe mapping before querying", func(t *testing.T) {
		mockDB := db.NewMockService(ctrl)

		_, err := graph.Load(context.Background(), mockDB, graph.Mapping{RelationshipType: "X]->() DELETE"})
		assert.ErrorIs(t, err, graph.ErrInvalidIdentifier)
	})
}
