package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"velto-memory-be/internal/entity"
	"velto-memory-be/internal/repository/specification"
	"velto-memory-be/internal/repository/unitofwork"
	"velto-memory-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.ContextRepository())
	assert.NotNil(t, uow.ProjectRepository())
	assert.NotNil(t, uow.ContextGraphRepository())

	assert.NoError(t, database.HealthCheck(context.Background(), gormDB))

	t.Run("Check Context Repository", func(t *testing.T) {
		count, err := uow.ContextRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Context count: %d", count)
	})

	t.Run("Check Project Repository", func(t *testing.T) {
		count, err := uow.ProjectRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Project count: %d", count)
	})

	t.Run("Check Transactional Context Write", func(t *testing.T) {
		ctx := context.Background()
		userId := uuid.New()

		err := uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		project := &entity.Project{
			Id:        uuid.New(),
			UserId:    userId,
			Name:      "integration-" + uuid.New().String(),
			Settings:  entity.DefaultProjectSettings(),
			CreatedAt: time.Now(),
		}
		err = uow.ProjectRepository().Create(ctx, project)
		assert.NoError(t, err)

		contextEntity := &entity.Context{
			Id:        uuid.New(),
			UserId:    userId,
			ProjectId: &project.Id,
			Title:     "integration context",
			Content:   "written inside a transaction",
			Type:      entity.TypeNote,
			Source:    entity.Source{Type: entity.SourceAPI, Timestamp: time.Now()},
			CreatedAt: time.Now(),
		}
		err = uow.ContextRepository().Create(ctx, contextEntity)
		assert.NoError(t, err)

		found, err := uow.ContextRepository().FindOne(ctx,
			specification.ByID{ID: contextEntity.Id},
			specification.OwnedBy{UserID: userId},
		)
		assert.NoError(t, err)
		assert.NotNil(t, found)

		graph := &entity.ContextGraph{
			Id:        uuid.New(),
			ProjectId: project.Id,
			UserId:    userId,
			NodeIds:   []uuid.UUID{contextEntity.Id},
			CreatedAt: time.Now(),
		}
		err = uow.ContextGraphRepository().Create(ctx, graph)
		assert.NoError(t, err)

		// Rollback in the deferred call leaves no rows behind.
		t.Log("Successfully wrote project, context and graph in one transaction")
	})
}
