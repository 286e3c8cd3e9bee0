package database

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/Alexandre11021998/Zelo/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Manager struct {
	pool *pgxpool.Pool
	cfg  *config.Config
	mu   sync.RWMutex
}

var (
	instance *Manager
	once     sync.Once
)

// GetManager returns the singleton database manager instance
func GetManager(cfg *config.Config) *Manager {
	once.Do(func() {
		instance = &Manager{
			cfg: cfg,
		}
	})
	return instance
}

// InitPool initializes the connection pool to Postgres
func (m *Manager) InitPool(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pool != nil {
		return nil
	}

	poolConfig, err := pgxpool.ParseConfig(m.cfg.DB.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to parse db config: %w", err)
	}

	// Configure pool settings
	poolConfig.MaxConns = int32(m.cfg.DB.MaxConns)
	poolConfig.MinConns = int32(m.cfg.DB.MinConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping db: %w", err)
	}

	m.pool = pool
	log.Println("DB pool initialized successfully")
	return nil
}

// GetPool returns the database pool
func (m *Manager) GetPool() *pgxpool.Pool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pool
}

// Close closes the database connection pool
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pool != nil {
		m.pool.Close()
		log.Println("DB pool closed")
	}
}
