package main

import (
	"os"

	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
