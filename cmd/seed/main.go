package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"promptstash/internal/config"
	"promptstash/internal/domain/models"
	"promptstash/internal/repository/postgres"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// fixtures is the seed file layout. Prompts reference folders by name within
// the same user.
type fixtures struct {
	Customers []struct {
		UserID     string `yaml:"user_id"`
		Membership string `yaml:"membership"`
	} `yaml:"customers"`
	Folders []struct {
		UserID string `yaml:"user_id"`
		Name   string `yaml:"name"`
	} `yaml:"folders"`
	Prompts []struct {
		UserID      string `yaml:"user_id"`
		Folder      string `yaml:"folder"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Content     string `yaml:"content"`
	} `yaml:"prompts"`
}

func main() {
	file := flag.String("file", "cmd/seed/fixtures.yaml", "Fixture file to load")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	// SAFETY: fixtures are for local development only
	if cfg.Environment == "prod" {
		log.Fatal("refusing to seed the production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read fixture file: %v", err)
	}

	var fx fixtures
	if err := yaml.Unmarshal(data, &fx); err != nil {
		log.Fatalf("Failed to parse fixture file: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	promptRepo := postgres.NewPromptRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	customerRepo := postgres.NewCustomerRepository(repoConfig)

	if err := seed(ctx, &fx, repoSet{promptRepo, folderRepo, customerRepo}); err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	logger.Info("seed complete",
		"customers", len(fx.Customers),
		"folders", len(fx.Folders),
		"prompts", len(fx.Prompts),
	)
}

type repoSet struct {
	prompts   interface {
		Create(ctx context.Context, prompt *models.Prompt) error
	}
	folders interface {
		Create(ctx context.Context, folder *models.Folder) error
	}
	customers interface {
		Upsert(ctx context.Context, customer *models.Customer) error
	}
}

func seed(ctx context.Context, fx *fixtures, repos repoSet) error {
	now := time.Now()

	for _, c := range fx.Customers {
		customer := &models.Customer{
			UserID:     c.UserID,
			Membership: models.Membership(c.Membership),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := repos.customers.Upsert(ctx, customer); err != nil {
			return fmt.Errorf("customer %s: %w", c.UserID, err)
		}
	}

	// Folder IDs by user and name, for prompt references
	folderIDs := make(map[string]int64)
	for _, f := range fx.Folders {
		folder := &models.Folder{
			UserID:    f.UserID,
			Name:      f.Name,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repos.folders.Create(ctx, folder); err != nil {
			return fmt.Errorf("folder %s: %w", f.Name, err)
		}
		folderIDs[f.UserID+"/"+f.Name] = folder.ID
	}

	for _, p := range fx.Prompts {
		prompt := &models.Prompt{
			UserID:      p.UserID,
			Name:        p.Name,
			Description: p.Description,
			Content:     p.Content,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if p.Folder != "" {
			id, ok := folderIDs[p.UserID+"/"+p.Folder]
			if !ok {
				return fmt.Errorf("prompt %s references unknown folder %s", p.Name, p.Folder)
			}
			prompt.FolderID = &id
		}
		if err := repos.prompts.Create(ctx, prompt); err != nil {
			return fmt.Errorf("prompt %s: %w", p.Name, err)
		}
	}

	return nil
}
