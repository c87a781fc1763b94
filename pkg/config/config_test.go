package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "", cfg.Log.File.Path)
	assert.Equal(t, 10, cfg.Log.File.MaxSizeMB)
	assert.Equal(t, 3, cfg.Reports.WorkerRetries)

	loc, err := cfg.Engine.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("ENGINE_TIMEZONE", "UTC")
	v.Set("CACHE_TTL", "not-a-duration")
	v.Set("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	v.Set("LOG_FILE", "/var/log/neuroathlete.log")

	cfg := fromViper(v)

	loc, err := cfg.Engine.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "/var/log/neuroathlete.log", cfg.Log.File.Path)
}

func TestEngineLocationRejectsUnknownZone(t *testing.T) {
	_, err := EngineConfig{Timezone: "Mars/Olympus_Mons"}.Location()
	assert.Error(t, err)
}
