//go:build integration

package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vadimbarashkov/shortlink-registry/internal/adapter/repository/registry"
	"github.com/vadimbarashkov/shortlink-registry/internal/entity"
	"github.com/vadimbarashkov/shortlink-registry/pkg/clock"

	goredis "github.com/redis/go-redis/v9"
	redispkg "github.com/vadimbarashkov/shortlink-registry/pkg/redis"
)

type BackendIntegrationTestSuite struct {
	suite.Suite
	redisCont testcontainers.Container
	client    *goredis.Client
	backend   *Backend
}

func (suite *BackendIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	var err error
	suite.redisCont, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	if err != nil {
		suite.T().Fatalf("Failed to start redis container: %v", err)
	}
	suite.T().Cleanup(func() {
		if err := suite.redisCont.Terminate(ctx); err != nil {
			suite.T().Fatalf("Failed to terminate redis container: %v", err)
		}
	})

	host, err := suite.redisCont.Host(ctx)
	if err != nil {
		suite.T().Fatalf("Failed to get redis container host: %v", err)
	}

	port, err := suite.redisCont.MappedPort(ctx, "6379")
	if err != nil {
		suite.T().Fatalf("Failed to get redis container port: %v", err)
	}

	suite.client, err = redispkg.New(ctx, fmt.Sprintf("redis://%s:%d/0", host, port.Int()))
	if err != nil {
		suite.T().Fatalf("Failed to connect to redis: %v", err)
	}
	suite.T().Cleanup(func() {
		suite.client.Close()
	})

	suite.backend = New(suite.client, "")
}

func (suite *BackendIntegrationTestSuite) TearDownSubTest() {
	if err := suite.client.FlushDB(context.Background()).Err(); err != nil {
		suite.T().Fatalf("Failed to flush redis: %v", err)
	}
}

func (suite *BackendIntegrationTestSuite) TestStoreRoundTrip() {
	suite.Run("empty key", func() {
		records, err := suite.backend.Load(context.Background())

		suite.NoError(err)
		suite.Empty(records)
	})

	suite.Run("records and clicks survive reload", func() {
		ctx := context.Background()
		clk := clock.NewMock(time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC))

		store, err := registry.New(ctx, suite.backend, clk)
		suite.Require().NoError(err)

		r := entity.NewURLRecord("id", "https://example.com", "abc123", clk.Now(), time.Hour)
		suite.Require().NoError(store.Save(ctx, r))

		_, err = store.AppendClick(ctx, "abc123", entity.NewClickEvent(clk.Now(), entity.Visit{Location: "PL"}))
		suite.Require().NoError(err)

		reloaded, err := registry.New(ctx, suite.backend, clk)
		suite.Require().NoError(err)

		got, err := reloaded.RetrieveByShortCode(ctx, "abc123")
		suite.Require().NoError(err)
		suite.Equal(1, got.ClickCount())
		suite.Equal("PL", got.ClickHistory[0].Location)
		suite.True(r.ExpiryAt.Equal(got.ExpiryAt))
	})
}

func TestBackendIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(BackendIntegrationTestSuite))
}
