package postgres

import (
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/bricesuazo/eboto-api/internal/config"
	"github.com/bricesuazo/eboto-api/internal/logger"
)

// Container implements RepositoryContainer
type Container struct {
	db            *gorm.DB
	log           *log.Logger
	electionRepo  ElectionRepository
	positionRepo  PositionRepository
	partylistRepo PartylistRepository
	candidateRepo CandidateRepository
	accountRepo   AccountRepository
	voterRepo     VoterRepository
	voteRepo      VoteRepository
}

// NewContainer creates a new repository container with all repositories
// initialized, connecting and migrating along the way.
func NewContainer(cfg *config.Config) (*Container, error) {
	log := logger.Repository("postgres_container")
	log.Info("Initializing PostgreSQL repository container...")

	db, err := Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		log.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	container := NewContainerWithDB(db)

	if err := container.Health(); err != nil {
		log.Error("Container health check failed", "error", err)
		return nil, fmt.Errorf("container health check failed: %w", err)
	}

	log.Info("PostgreSQL repository container initialized successfully")
	return container, nil
}

// NewContainerWithDB creates a container with an existing database connection
func NewContainerWithDB(db *gorm.DB) *Container {
	return &Container{
		db:            db,
		log:           logger.Repository("postgres_container"),
		electionRepo:  NewElectionRepository(db),
		positionRepo:  NewPositionRepository(db),
		partylistRepo: NewPartylistRepository(db),
		candidateRepo: NewCandidateRepository(db),
		accountRepo:   NewAccountRepository(db),
		voterRepo:     NewVoterRepository(db),
		voteRepo:      NewVoteRepository(db),
	}
}

func (c *Container) Elections() ElectionRepository   { return c.electionRepo }
func (c *Container) Positions() PositionRepository   { return c.positionRepo }
func (c *Container) Partylists() PartylistRepository { return c.partylistRepo }
func (c *Container) Candidates() CandidateRepository { return c.candidateRepo }
func (c *Container) Accounts() AccountRepository     { return c.accountRepo }
func (c *Container) Voters() VoterRepository         { return c.voterRepo }
func (c *Container) Votes() VoteRepository           { return c.voteRepo }

// DB exposes the underlying connection for server wiring
func (c *Container) DB() *gorm.DB { return c.db }

// Health performs a health check on the container's connection
func (c *Container) Health() error {
	return HealthCheck(c.db)
}

// Close closes the container's database connection
func (c *Container) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}
