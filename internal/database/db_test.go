package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wastezero/volunteer-hub/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := config.Config{
		DBUser: "hub",
		DBPass: "s3cret",
		DBHost: "db",
		DBPort: "3306",
		DBName: "volunteer_hub",
	}

	assert.Equal(t,
		"hub:s3cret@tcp(db:3306)/volunteer_hub?charset=utf8mb4&parseTime=true&loc=UTC",
		dsn(cfg))
}

func TestDSNWithoutPassword(t *testing.T) {
	cfg := config.Config{
		DBUser: "root",
		DBHost: "localhost",
		DBPort: "3307",
		DBName: "volunteer_hub",
	}

	assert.Equal(t,
		"root@tcp(localhost:3307)/volunteer_hub?charset=utf8mb4&parseTime=true&loc=UTC",
		dsn(cfg))
}
