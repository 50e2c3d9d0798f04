package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Generates rotated log files with synthetic entries for trying out the
// combine, stream and serve commands.

var levels = []struct {
	letter byte
	name   string
}{
	{'D', "DEBUG"},
	{'I', "INFO"},
	{'W', "WARN"},
	{'E', "ERROR"},
	{'F', "FATAL"},
}

var messages = []string{
	"request served",
	"cache refreshed",
	"worker heartbeat",
	"upstream timeout",
	"connection pool exhausted",
	"session expired",
	"payload accepted",
}

var continuations = []string{
	"  stack level 1: handler.go:42",
	"  stack level 2: router.go:108",
	"  caused by: connection reset by peer",
}

func main() {
	dir := flag.String("dir", "./logs", "directory for generated log files")
	files := flag.Int("files", 3, "number of rotated files to write")
	entries := flag.Int("entries", 200, "entries per file")
	startText := flag.String("start", "", "timestamp of the earliest entry (YYYY-MM-DDTHH:MM:SS, default one hour ago)")
	seed := flag.Int64("seed", 0, "random seed (default: current time)")
	flag.Parse()

	start := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	if *startText != "" {
		parsed, err := time.Parse("2006-01-02T15:04:05", *startText)
		if err != nil {
			log.Fatalf("Invalid -start value: %v", err)
		}
		start = parsed.UTC()
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	if err := os.MkdirAll(*dir, 0755); err != nil {
		log.Fatalf("Error creating directory %s: %v", *dir, err)
	}

	stamp := start.Format("2006-01-02")
	for i := 0; i < *files; i++ {
		name := filepath.Join(*dir, fmt.Sprintf("app-%s-%d.log", stamp, i))

		// Offset each file's start so combine has real sorting work to do.
		ts := start.Add(time.Duration(rng.Intn(30)) * time.Second)

		var b strings.Builder
		for j := 0; j < *entries; j++ {
			level := levels[rng.Intn(len(levels))]
			msg := messages[rng.Intn(len(messages))]
			fmt.Fprintf(&b, "%c, [%s.%06d #%d] %5s -- : %s\n",
				level.letter, ts.Format("2006-01-02T15:04:05"), rng.Intn(1000000), 1000+i, level.name, msg)
			if level.letter == 'E' && rng.Intn(4) == 0 {
				for _, line := range continuations {
					b.WriteString(line)
					b.WriteByte('\n')
				}
			}
			ts = ts.Add(time.Duration(rng.Intn(4)) * time.Second)
		}

		if err := os.WriteFile(name, []byte(b.String()), 0644); err != nil {
			log.Fatalf("Error writing %s: %v", name, err)
		}
		fmt.Printf("Wrote %s (%d entries)\n", name, *entries)
	}

	fmt.Printf("Try: logvault combine %q %s\n",
		filepath.Join(*dir, "*.log"), filepath.Join(*dir, "combined-{date}.log"))
}
