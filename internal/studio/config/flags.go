package config

import (
	"flag"
	"os"

	"github.com/ecank/nebula/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-d string   path to the local library database
//	-k string   generation API key
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-k"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local library database")
	fs.StringVar(&cfg.GenAIAPIKey, "k", cfg.GenAIAPIKey, "generation API key")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
