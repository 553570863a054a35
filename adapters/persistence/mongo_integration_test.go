package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/khoahotran/portfolio-pilot/internal/config"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

type MongoIntegrationTestSuite struct {
	suite.Suite
	container *mongodb.MongoDBContainer
	db        *mongo.Database
	logger    logger.Logger
}

func (s *MongoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	s.logger = logger.NewNop()

	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		s.T().Fatalf("Failed to start mongodb container: %s", err)
	}
	s.container = container

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	var cfg config.Config
	cfg.DB.MongoURI = uri
	cfg.DB.MongoDatabase = "pilot_test"
	db, err := NewMongoDatabase(ctx, cfg, s.logger)
	if err != nil {
		s.T().Fatalf("Failed to connect mongodb: %s", err)
	}
	if err := EnsureMongoIndexes(ctx, db); err != nil {
		s.T().Fatalf("Failed to create indexes: %s", err)
	}
	s.db = db
}

func (s *MongoIntegrationTestSuite) TearDownSuite() {
	ctx := context.Background()
	if s.db != nil {
		_ = s.db.Client().Disconnect(ctx)
	}
	if s.container != nil {
		if err := s.container.Terminate(ctx); err != nil {
			s.T().Logf("Failed to terminate mongodb container: %s", err)
		}
	}
}

func (s *MongoIntegrationTestSuite) TestDocumentStore() {
	documentStoreContract(s.T(), NewMongoDocumentStore(s.db, s.logger))
}

func (s *MongoIntegrationTestSuite) TestUserRepo() {
	userRepoContract(s.T(), NewMongoUserRepo(s.db))
}

func TestMongoIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode.")
	}
	suite.Run(t, new(MongoIntegrationTestSuite))
}
