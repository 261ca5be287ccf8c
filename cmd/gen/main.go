package main

import (
	"citysim/internal/infra/persistence/model"

	"gorm.io/gen"
)

// Generates typed query helpers for the game models into
// internal/infra/persistence/postgres/query. Run from the repository root.
func main() {
	g := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
		Mode:    gen.WithDefaultQuery | gen.WithQueryInterface,
	})

	g.ApplyBasic(model.All()...)

	g.Execute()
}
