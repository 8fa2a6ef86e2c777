package database

import (
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/internal/pkg/config"
)

func TestDSNRoundTrip(t *testing.T) {
	dsn := DSN(config.MySQLConfig{
		Host:     "mysql",
		Port:     3306,
		User:     "user",
		Password: "p@ss:word",
		Database: "warehouse",
	})

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "user", parsed.User)
	assert.Equal(t, "p@ss:word", parsed.Passwd)
	assert.Equal(t, "mysql:3306", parsed.Addr)
	assert.Equal(t, "warehouse", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.True(t, parsed.ClientFoundRows)
}
