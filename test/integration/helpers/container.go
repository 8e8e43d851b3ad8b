//go:build integration

package helpers

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	neo4jImage    = "neo4j:5.26-community"
	neo4jPassword = "integration-password"
	boltPort      = "7687/tcp"
)

// Neo4jContainer is a throwaway Neo4j instance shared by the integration tests.
type Neo4jContainer struct {
	container testcontainers.Container
	driver    neo4j.DriverWithContext
	URI       string
}

// StartNeo4j starts a community Neo4j container and returns a connected driver.
func StartNeo4j(ctx context.Context) (*Neo4jContainer, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        neo4jImage,
			ExposedPorts: []string{boltPort},
			Env: map[string]string{
				"NEO4J_AUTH": "neo4j/" + neo4jPassword,
			},
			WaitingFor: wait.ForLog("Started.").WithStartupTimeout(3 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start neo4j container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, boltPort)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get bolt port: %w", err)
	}

	uri := fmt.Sprintf("bolt://%s:%s", host, port.Port())
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth("neo4j", neo4jPassword, ""))
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	return &Neo4jContainer{container: container, driver: driver, URI: uri}, nil
}

func (c *Neo4jContainer) GetDriver() neo4j.DriverWithContext {
	return c.driver
}

func (c *Neo4jContainer) Terminate(ctx context.Context) error {
	if err := c.driver.Close(ctx); err != nil {
		return err
	}
	return c.container.Terminate(ctx)
}
