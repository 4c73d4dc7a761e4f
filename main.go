package main

import (
	_ "embed"

	"github.com/marisj/financials/cmd"
	"github.com/marisj/financials/cmd/db"
)

//go:embed db/schema.sql
var schemaSQL string

func init() {
	db.SchemaSQL = schemaSQL
}

func main() {
	cmd.Execute()
}
