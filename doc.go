// Package quarry wires repositories and transactions to the global database
// managed by package database.
//
//	cfg, _ := config.Load("config.yaml", ".env")
//	database.InitDB(cfg)
//	users := quarry.NewService[User]()
//	page, _ := users.Page(ctx, repository.PageCriteria{Criteria: c, Page: 1, Size: 20})
package quarry
