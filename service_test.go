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

package quarry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomoncle/quarry/database"
	"github.com/tomoncle/quarry/query"
	"github.com/tomoncle/quarry/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type SystemConfig struct {
	bun.BaseModel `bun:"table:system_config,alias:sc"`

	ID          string    `bun:"id,pk" json:"id"`
	ConfigKey   string    `bun:"config_key,notnull,unique" json:"config_key"`
	ConfigValue string    `bun:"config_value" json:"config_value"`
	Weight      int       `bun:"weight" json:"weight"`
	UpdatedDate time.Time `bun:"updated_date,nullzero" json:"updated_date"`
}

type SystemConfigRepository struct {
	*repository.Base[SystemConfig]
}

func (r *SystemConfigRepository) FindByConfigKey(ctx context.Context, key any) (*SystemConfig, error) {
	return r.FindOneBy(ctx, "FindByConfigKey", key)
}

func setup(t *testing.T) *bun.DB {
	t.Helper()
	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.DBName = ":memory:"
	cfg.LogLevel = "warn"

	db, err := Init(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close() })

	_, err = db.NewCreateTable().Model((*SystemConfig)(nil)).IfNotExists().Exec(context.Background())
	require.NoError(t, err)
	return db
}

func TestNotInitialized(t *testing.T) {
	_, err := NewRepository[SystemConfig](&SystemConfigRepository{})
	assert.ErrorIs(t, err, ErrNotInitialized)

	err = RunInTransaction(context.Background(), func(context.Context, *bun.Tx) error { return nil })
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = NewService[SystemConfig]().All(context.Background())
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = Init(nil)
	assert.Error(t, err)
}

func TestService(t *testing.T) {
	setup(t)
	svc := NewService[SystemConfig]()
	ctx := context.Background()

	saved, err := svc.Save(ctx, &SystemConfig{ConfigKey: "site.name", ConfigValue: "quarry", Weight: 2})
	require.NoError(t, err)
	require.Len(t, saved.ID, 32)
	_, err = svc.Save(ctx, &SystemConfig{ConfigKey: "site.theme", ConfigValue: "dark", Weight: 3})
	require.NoError(t, err)

	got, err := svc.Get(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "quarry", got.ConfigValue)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	criteria := query.NewCriteriaBuilder().
		Add("config_key", "site.theme", query.Eq("site.theme")).
		Add("config_value", "", query.Eq("")).
		Build()
	list, err := svc.List(ctx, criteria)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "dark", list[0].ConfigValue)

	page, err := svc.Page(ctx, repository.PageCriteria{Size: 1, OrderAttr: "weight"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, "site.theme", page.Rows[0].ConfigKey)

	total, err := svc.Sum(ctx, "weight", nil)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, total, 0.0001)

	n, err := svc.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNamedRepositoryAndTransaction(t *testing.T) {
	setup(t)
	ctx := context.Background()

	repo := &SystemConfigRepository{}
	base, err := NewRepository[SystemConfig](repo)
	require.NoError(t, err)
	repo.Base = base

	boom := errors.New("boom")
	err = RunInTransaction(ctx, func(ctx context.Context, tx *bun.Tx) error {
		if _, err := repo.SaveWithTx(ctx, tx, &SystemConfig{ConfigKey: "tx.key"}); err != nil {
			return err
		}
		return boom
	})
	assert.Same(t, boom, err)

	found, err := repo.FindByConfigKey(ctx, "tx.key")
	require.NoError(t, err)
	assert.Nil(t, found)

	err = RunInTransaction(ctx, func(ctx context.Context, tx *bun.Tx) error {
		_, err := repo.SaveWithTx(ctx, tx, &SystemConfig{ConfigKey: "tx.key", ConfigValue: "v"})
		return err
	})
	require.NoError(t, err)

	found, err = repo.FindByConfigKey(ctx, "tx.key")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "v", found.ConfigValue)
}
