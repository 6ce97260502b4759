// Package repository provides the generic base repository: CRUD pass-through,
// pagination, aggregation, Criteria filtering, query methods derived from
// their names (FindByXAndY, FindAllByXAndY) and a transaction runner.
package repository
