/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suparena/dynarepo/errors"
	"github.com/suparena/dynarepo/lifecycle"
	"github.com/suparena/dynarepo/storagemodels"
)

const sample = `
aws:
  region: eu-west-1
  endpoint: http://localhost:8000
tablePrefix: test_
entity2ddl: create-drop
tableActiveTimeout: 30s
scan:
  findAllUnpaginated: true
  countUnpaginated: true
breaker:
  enabled: true
  failureThreshold: 0.5
metrics:
  enabled: true
  address: ":9090"
logLevel: debug
tables:
  - name: Users
    hashKey: {name: id}
  - name: Playlists
    hashKey: {name: userName, type: S}
    rangeKey: {name: playlistName, type: S}
    readCapacity: 5
    writeCapacity: 5
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dynarepo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_File(t *testing.T) {
	t.Setenv("AWS_REGION", "")
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg.AWS.Region)
	assert.Equal(t, lifecycle.ModeCreateDrop, cfg.Mode())
	assert.Equal(t, 30*time.Second, cfg.TableActiveTimeout)
	assert.Equal(t, lifecycle.DefaultPollInterval, cfg.TablePollInterval)
	assert.Equal(t, "dynarepo", cfg.Metrics.Namespace)

	perms := cfg.ScanPermissions()
	assert.True(t, perms.FindAllUnpaginatedScanEnabled)
	assert.True(t, perms.CountUnpaginatedScanEnabled)
	assert.False(t, perms.DeleteAllUnpaginatedScanEnabled)

	breaker := cfg.BreakerConfig("ddb")
	assert.Equal(t, 0.5, breaker.FailureThreshold)
	assert.Equal(t, uint32(5), breaker.MinRequests)

	schemas := cfg.TableSchemas()
	require.Len(t, schemas, 2)
	assert.Equal(t, "test_Users", schemas[0].TableName)
	assert.Equal(t, storagemodels.KeyKindS, schemas[0].HashKey.Kind)
	assert.False(t, schemas[0].IsRangeKeyAware())
	assert.Equal(t, "test_Playlists", schemas[1].TableName)
	require.NotNil(t, schemas[1].RangeKey)
	assert.Equal(t, "playlistName", schemas[1].RangeKey.Name)
	assert.Equal(t, int64(5), schemas[1].ReadCapacity)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DYNAREPO_REGION", "ap-south-1")
	t.Setenv("DYNAREPO_ENTITY2DDL", "CREATE_ONLY")
	t.Setenv("DYNAREPO_TABLE_POLL_INTERVAL", "250ms")
	t.Setenv("DYNAREPO_SCAN_DELETE_ALL", "true")

	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	assert.Equal(t, "ap-south-1", cfg.AWS.Region)
	assert.Equal(t, lifecycle.ModeCreateOnly, cfg.Mode())
	assert.Equal(t, 250*time.Millisecond, cfg.TablePollInterval)
	assert.True(t, cfg.ScanPermissions().DeleteAllUnpaginatedScanEnabled)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, lifecycle.ModeNone, cfg.Mode())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.TableSchemas())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{"unknown mode", "entity2ddl: validate\n", nil},
		{"bad log level", "logLevel: loud\n", nil},
		{"threshold above one", "breaker: {failureThreshold: 2}\n", nil},
		{"table without hash key", "tables:\n  - name: Users\n", nil},
		{"bad key type", "tables:\n  - name: Users\n    hashKey: {name: id, type: X}\n", nil},
		{"access key without secret", "aws: {region: eu-west-1, accessKey: AKIA}\n", nil},
		{"bad duration", "", map[string]string{"DYNAREPO_TABLE_ACTIVE_TIMEOUT": "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.True(t, errors.IsConfiguration(err))
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
