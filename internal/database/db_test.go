package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/worldmic/seat-service/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := config.Config{
		DBUser: "seat",
		DBPass: "s3cret",
		DBHost: "db.internal",
		DBPort: "3306",
		DBName: "worldmic",
	}
	assert.Equal(t,
		"seat:s3cret@tcp(db.internal:3306)/worldmic?charset=utf8mb4&parseTime=true&loc=UTC",
		dsn(cfg))
}

func TestDSNWithoutPassword(t *testing.T) {
	cfg := config.Config{
		DBUser: "seat",
		DBHost: "localhost",
		DBPort: "3306",
		DBName: "worldmic",
	}
	assert.Equal(t,
		"seat@tcp(localhost:3306)/worldmic?charset=utf8mb4&parseTime=true&loc=UTC",
		dsn(cfg))
}
