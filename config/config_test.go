package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+): it changes the working
// directory and restores the previous one when the test finishes.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestInitConfig_EmbeddedDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.HTTPPort)
	assert.Equal(t, DriverPostgres, cfg.Repositories.Driver)
	assert.Equal(t, 200, cfg.Audit.LogLimit)
	assert.Equal(t, "user-admin", cfg.JWT.Issuer)
	assert.NotZero(t, cfg.JWT.AccessTokenTTL)
}

func TestInitConfig_EnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("USERADMIN_REPOSITORIES_DRIVER", DriverMemory)

	cfg, err := InitConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Repositories.Driver)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.JWT.SecretKey = "secret"
		c.Repositories.Driver = DriverMemory
		c.Audit.LogLimit = 200
		return c
	}

	t.Run("valid", func(t *testing.T) {
		c := valid()
		assert.NoError(t, c.Validate())
	})

	t.Run("empty secret", func(t *testing.T) {
		c := valid()
		c.JWT.SecretKey = ""
		assert.ErrorContains(t, c.Validate(), "jwt.secretKey")
	})

	t.Run("unknown driver", func(t *testing.T) {
		c := valid()
		c.Repositories.Driver = "mongo"
		assert.ErrorContains(t, c.Validate(), "repositories.driver")
	})

	t.Run("non-positive log limit", func(t *testing.T) {
		c := valid()
		c.Audit.LogLimit = 0
		assert.ErrorContains(t, c.Validate(), "audit.logLimit")
	})
}
