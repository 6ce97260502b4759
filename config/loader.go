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

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/tomoncle/quarry/database"
	"github.com/tomoncle/quarry/utils"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var log = utils.NewLogger("CONFIG")

// envKeys maps config keys to the environment variables overriding them.
var envKeys = map[string]string{
	"type":                  "DB_TYPE",
	"host":                  "DB_HOST",
	"port":                  "DB_PORT",
	"username":              "DB_USERNAME",
	"password":              "DB_PASSWORD",
	"dbname":                "DB_NAME",
	"sslmode":               "DB_SSLMODE",
	"max_idle_conns":        "DB_MAX_IDLE_CONNS",
	"max_open_conns":        "DB_MAX_OPEN_CONNS",
	"conn_max_lifetime":     "DB_CONN_MAX_LIFETIME",
	"connect_timeout":       "DB_CONNECT_TIMEOUT",
	"health_check_interval": "DB_HEALTH_CHECK_INTERVAL",
	"enable_reconnect":      "DB_ENABLE_RECONNECT",
	"reconnect_interval":    "DB_RECONNECT_INTERVAL",
	"max_reconnect_tries":   "DB_MAX_RECONNECT_TRIES",
	"enable_query_log":      "DB_ENABLE_QUERY_LOG",
	"slow_query_time":       "DB_SLOW_QUERY_TIME",
	"log_level":             "LOG_LEVEL",
	"file_log_enabled":      "FILE_LOG_ENABLED",
	"file_log_dir":          "FILE_LOG_DIR",
	"file_log_max_age_days": "FILE_LOG_MAX_AGE_DAYS",
	"file_log_format":       "FILE_LOG_FORMAT",
}

// Load builds a Config from the defaults, the YAML file at path (skipped
// when path is empty) and the environment. envFiles are read with godotenv
// first; variables already present in the process environment win and
// missing files are ignored.
func Load(path string, envFiles ...string) (*database.Config, error) {
	cfg := database.DefaultConfig()

	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Debugf("env file %s not found, skipped", file)
				continue
			}
			return nil, fmt.Errorf("failed to load env file %s: %w", file, err)
		}
		log.Debugf("loaded env file %s", file)
	}

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad is Load that panics on error.
func MustLoad(path string, envFiles ...string) *database.Config {
	cfg, err := Load(path, envFiles...)
	if err != nil {
		panic(err)
	}
	return cfg
}

func loadFile(path string, cfg *database.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	log.Infof("loaded config file %s", path)
	return nil
}

func applyEnv(cfg *database.Config) error {
	v := viper.New()
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	conn := &cfg.ConnectionConfig
	if v.IsSet("type") {
		conn.Type = v.GetString("type")
	}
	if v.IsSet("host") {
		conn.Host = v.GetString("host")
	}
	if v.IsSet("port") {
		conn.Port = v.GetInt("port")
	}
	if v.IsSet("username") {
		conn.Username = v.GetString("username")
	}
	if v.IsSet("password") {
		conn.Password = v.GetString("password")
	}
	if v.IsSet("dbname") {
		conn.DBName = v.GetString("dbname")
	}
	if v.IsSet("sslmode") {
		conn.SSLMode = v.GetString("sslmode")
	}
	if v.IsSet("max_idle_conns") {
		conn.MaxIdleConns = v.GetInt("max_idle_conns")
	}
	if v.IsSet("max_open_conns") {
		conn.MaxOpenConns = v.GetInt("max_open_conns")
	}
	if v.IsSet("conn_max_lifetime") {
		conn.ConnMaxLifetime = v.GetDuration("conn_max_lifetime")
	}
	if v.IsSet("connect_timeout") {
		conn.ConnectTimeout = v.GetDuration("connect_timeout")
	}
	if v.IsSet("health_check_interval") {
		conn.HealthCheckInterval = v.GetDuration("health_check_interval")
	}
	if v.IsSet("enable_reconnect") {
		conn.EnableReconnect = v.GetBool("enable_reconnect")
	}
	if v.IsSet("reconnect_interval") {
		conn.ReconnectInterval = v.GetDuration("reconnect_interval")
	}
	if v.IsSet("max_reconnect_tries") {
		conn.MaxReconnectTries = v.GetInt("max_reconnect_tries")
	}
	if v.IsSet("enable_query_log") {
		conn.EnableQueryLog = v.GetBool("enable_query_log")
	}
	if v.IsSet("slow_query_time") {
		conn.SlowQueryTime = v.GetDuration("slow_query_time")
	}
	if v.IsSet("log_level") {
		cfg.LogLevel = v.GetString("log_level")
	}

	fileLog := &cfg.FileLog
	if v.IsSet("file_log_enabled") {
		fileLog.Enabled = v.GetBool("file_log_enabled")
	}
	if v.IsSet("file_log_dir") {
		fileLog.Dir = v.GetString("file_log_dir")
	}
	if v.IsSet("file_log_max_age_days") {
		fileLog.MaxAgeDays = v.GetInt("file_log_max_age_days")
	}
	if v.IsSet("file_log_format") {
		fileLog.Format = v.GetString("file_log_format")
	}
	return nil
}
