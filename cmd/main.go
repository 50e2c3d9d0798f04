package main

import (
	"logvault/internal/cli"
)

// @title           Logvault API
// @version         1.0
// @description     Aggregates rotated log files into a single time-sorted archive and answers time-window queries from a per-second byte-offset index.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @tag.name         logs
// @tag.description  Time-window queries against the combined archive

// @tag.name         aggregation
// @tag.description  Aggregation runs and archive status

// @tag.name         health
// @tag.description  API health check operations

func main() {
	cli.Execute()
}
