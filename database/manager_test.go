/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type account struct {
	bun.BaseModel `bun:"table:accounts"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name"`
}

func memoryConfig() *ConnectionConfig {
	cfg := DefaultConnectionConfig()
	cfg.DBName = ":memory:"
	return cfg
}

func TestConnectionConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConnectionConfig().Validate())

	cfg := DefaultConnectionConfig()
	cfg.Type = "oracle"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConnectionConfig()
	cfg.DBName = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConnectionConfig()
	cfg.Type = "postgres"
	assert.Error(t, cfg.Validate())
	cfg.Host = "localhost"
	assert.NoError(t, cfg.Validate())
}

func TestSqliteDSN(t *testing.T) {
	dm := &defaultManager{config: &ConnectionConfig{DBName: ":memory:"}}
	assert.Equal(t, "file::memory:?cache=shared", dm.sqliteDSN())
	dm.config.DBName = "data/app.db"
	assert.Equal(t, "data/app.db", dm.sqliteDSN())
	dm.config.DBName = "quarry"
	assert.Equal(t, "quarry.db", dm.sqliteDSN())
}

func TestPostgresDSN(t *testing.T) {
	dm := &defaultManager{config: &ConnectionConfig{
		Username:       "u",
		Password:       "p",
		Host:           "db",
		Port:           5432,
		DBName:         "app",
		ConnectTimeout: 5 * time.Second,
	}}
	assert.Equal(t, "postgres://u:p@db:5432/app?sslmode=disable&connect_timeout=5", dm.postgresDSN())
}

func TestManagerLifecycle(t *testing.T) {
	m := NewManager(memoryConfig())
	ctx := context.Background()

	status := m.HealthCheck(ctx)
	assert.False(t, status.Healthy)
	assert.Error(t, m.Ping(ctx))

	require.NoError(t, m.Connect(ctx))
	require.NoError(t, m.Connect(ctx))
	assert.NotNil(t, m.GetDB())
	assert.NotNil(t, m.GetSQLDB())
	assert.NoError(t, m.Ping(ctx))

	status = m.HealthCheck(ctx)
	assert.True(t, status.Healthy)
	assert.True(t, status.Connected)
	assert.Equal(t, 1, m.GetStats().MaxOpenConns)

	require.NoError(t, m.Disconnect())
	assert.Nil(t, m.GetDB())
	assert.Equal(t, &DBStats{}, m.GetStats())
	assert.NoError(t, m.Disconnect())
}

func TestManagerReconnect(t *testing.T) {
	m := NewManager(memoryConfig())
	ctx := context.Background()
	t.Cleanup(func() { _ = m.Disconnect() })

	require.NoError(t, m.Reconnect(ctx))
	first := m.GetDB()
	require.NotNil(t, first)

	require.NoError(t, m.Reconnect(ctx))
	assert.NotSame(t, first, m.GetDB())
	assert.NoError(t, m.Ping(ctx))
	assert.Error(t, first.PingContext(ctx))
}

func TestHealthCheckLoopReconnects(t *testing.T) {
	cfg := memoryConfig()
	cfg.HealthCheckInterval = 10 * time.Millisecond
	cfg.ReconnectInterval = time.Millisecond
	m := NewManager(cfg)
	ctx := context.Background()
	require.NoError(t, m.Connect(ctx))
	t.Cleanup(func() { _ = m.Disconnect() })

	broken := m.GetDB()
	require.NoError(t, broken.Close())

	assert.Eventually(t, func() bool {
		db := m.GetDB()
		return db != nil && db != broken && db.PingContext(ctx) == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHandleReconnectGivesUp(t *testing.T) {
	cfg := memoryConfig()
	cfg.ReconnectInterval = 0
	cfg.MaxReconnectTries = 2
	dm := NewManager(cfg).(*defaultManager)

	cfg.Type = "oracle"
	for i := 0; i < 3; i++ {
		dm.handleReconnect(nil)
	}
	assert.Equal(t, 2, dm.reconnectTries)
	assert.Nil(t, dm.GetDB())

	cfg.Type = "sqlite"
	require.NoError(t, dm.Connect(context.Background()))
	assert.Zero(t, dm.reconnectTries)
	require.NoError(t, dm.Disconnect())
}

func TestDisconnectStopsReconnecting(t *testing.T) {
	cfg := memoryConfig()
	cfg.HealthCheckInterval = time.Hour
	dm := NewManager(cfg).(*defaultManager)
	require.NoError(t, dm.Connect(context.Background()))

	dm.mu.RLock()
	stop := dm.stopHealthCheck
	dm.mu.RUnlock()
	require.NotNil(t, stop)

	require.NoError(t, dm.Disconnect())
	require.NoError(t, dm.reconnect(context.Background(), stop))
	assert.Nil(t, dm.GetDB())
}

func TestConnectRejectsInvalidConfig(t *testing.T) {
	cfg := memoryConfig()
	cfg.Type = "oracle"
	assert.Error(t, NewManager(cfg).Connect(context.Background()))
}

func TestInitDB(t *testing.T) {
	RegisteredModel(NewModel((*account)(nil), 1))
	cfg := DefaultConfig()
	cfg.ConnectionConfig = *memoryConfig()

	db, err := InitDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseDB() })

	assert.Same(t, db, GetDB())
	assert.NotNil(t, GetDatabaseManager())
	assert.True(t, GetHealthStatus(context.Background()).Healthy)

	ctx := context.Background()
	_, err = db.NewCreateTable().Model((*account)(nil)).IfNotExists().Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewInsert().Model(&account{Name: "main"}).Exec(ctx)
	require.NoError(t, err)

	require.NoError(t, CloseDB())
	assert.Nil(t, GetDB())
	assert.False(t, GetHealthStatus(ctx).Healthy)
	assert.Equal(t, &DBStats{}, GetDatabaseStats())

	_, err = InitDB(nil)
	assert.Error(t, err)
}

func TestSlowQueryHook(t *testing.T) {
	var buf bytes.Buffer
	hook := &SlowQueryHook{Threshold: time.Millisecond, Writer: &buf}

	hook.AfterQuery(context.Background(), &bun.QueryEvent{
		Query:     "SELECT 1",
		StartTime: time.Now(),
	})
	assert.Empty(t, buf.String())

	hook.AfterQuery(context.Background(), &bun.QueryEvent{
		Query:     "SELECT 2",
		StartTime: time.Now().Add(-time.Second),
	})
	assert.Contains(t, buf.String(), "SELECT 2")
	assert.Contains(t, buf.String(), "SLOW")
}
