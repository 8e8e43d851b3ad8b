package events_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	db "github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/database/mocks"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/events"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/graph"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestIngestQuery(t *testing.T) {
	q := events.IngestQuery(graph.DefaultMapping())
	assert.True(t, strings.HasPrefix(q, "UNWIND $events AS e"))
	assert.Contains(t, q, "MERGE (u:Entity {id: e.user}) SET u.category = 'user'")
	assert.Contains(t, q, "MERGE (u)-[ud:INTERACTS]-(d) SET ud.type = e.event")
	assert.Contains(t, q, "SET di.type = 'access'")
}

func TestIngest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("splits events into batches", func(t *testing.T) {
		mockDB := db.NewMockService(ctrl)
		mockDB.EXPECT().GetDatabaseName().Return("neo4j").AnyTimes()

		var sizes []int
		mockDB.EXPECT().
			ExecuteWriteQuery(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, params map[string]any) ([]*neo4j.Record, error) {
				batch, ok := params["events"].([]map[string]any)
				require.True(t, ok)
				sizes = append(sizes, len(batch))
				return []*neo4j.Record{}, nil
			}).
			Times(3)

		input := events.Generate(25, events.GeneratorOptions{Seed: 9})
		input = append(input, events.Event{User: "U1", Device: "", IP: "IP1", Event: "login"})

		summary, err := events.Ingest(context.Background(), mockDB, graph.Mapping{}, input, 10)
		require.NoError(t, err)

		assert.Equal(t, []int{10, 10, 5}, sizes)
		assert.Equal(t, 25, summary.Events)
		assert.Equal(t, 3, summary.Batches)
		assert.Equal(t, 1, summary.Skipped)
	})

	t.Run("no events means no queries", func(t *testing.T) {
		mockDB := db.NewMockService(ctrl)
		mockDB.EXPECT().GetDatabaseName().Return("neo4j").AnyTimes()

		summary, err := events.Ingest(context.Background(), mockDB, graph.DefaultMapping(), nil, 0)
		require.NoError(t, err)
		assert.Zero(t, summary.Batches)
	})

	t.Run("stops at the first failing batch", func(t *testing.T) {
		mockDB := db.NewMockService(ctrl)
		gomock.InOrder(
			mockDB.EXPECT().ExecuteWriteQuery(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil),
			mockDB.EXPECT().ExecuteWriteQuery(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("write conflict")),
		)

		summary, err := events.Ingest(context.Background(), mockDB, graph.DefaultMapping(), events.Generate(30, events.GeneratorOptions{}), 10)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch 2")
		assert.Equal(t, 1, summary.Batches)
		assert.Equal(t, 10, summary.Events)
	})

	t.Run("rejects unsafe mapping", func(t *testing.T) {
		mockDB := db.NewMockService(ctrl)
		_, err := events.Ingest(context.Background(), mockDB, graph.Mapping{NodeLabel: "a b"}, events.Generate(1, events.GeneratorOptions{}), 10)
		assert.ErrorIs(t, err, graph.ErrInvalidIdentifier)
	})
}
