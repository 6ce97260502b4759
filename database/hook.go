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
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/uptrace/bun"
)

var (
	selectColor = color.New(color.FgGreen)
	insertColor = color.New(color.FgBlue)
	updateColor = color.New(color.FgYellow)
	deleteColor = color.New(color.FgMagenta)
	otherColor  = color.New(color.FgRed)
	slowColor   = color.New(color.BgYellow, color.FgBlack)
	errColor    = color.New(color.BgRed, color.FgWhite)
)

func operationColor(operation string) *color.Color {
	switch operation {
	case "SELECT":
		return selectColor
	case "INSERT":
		return insertColor
	case "UPDATE":
		return updateColor
	case "DELETE":
		return deleteColor
	default:
		return otherColor
	}
}

// SlowQueryHook reports queries running longer than Threshold. With a
// Writer the query is printed in color; otherwise it goes to Logger.
type SlowQueryHook struct {
	Threshold time.Duration
	Logger    Logger
	Writer    io.Writer
}

var _ bun.QueryHook = (*SlowQueryHook)(nil)

func (h *SlowQueryHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *SlowQueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		if h.Writer != nil {
			_, _ = fmt.Fprintln(h.Writer, errColor.Sprintf(" %s ", event.Err), operationColor(event.Operation()).Sprint(event.Query))
		}
		return
	}
	duration := time.Since(event.StartTime)
	if h.Threshold <= 0 || duration <= h.Threshold {
		return
	}
	if h.Writer != nil {
		_, _ = fmt.Fprintln(h.Writer,
			time.Now().Format("2006-01-02 15:04:05.000"),
			slowColor.Sprintf(" SLOW %s ", duration.Round(time.Microsecond)),
			operationColor(event.Operation()).Sprint(event.Query),
		)
		return
	}
	if h.Logger != nil {
		h.Logger.Warn("Database slow query detected",
			"duration", duration,
			"slow_threshold", h.Threshold,
			"query", event.Query,
		)
	}
}
