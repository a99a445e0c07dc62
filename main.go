package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"napoleon/experiments"
	"napoleon/game"
	"napoleon/mapdata"
	"napoleon/meta"
)

func main() {
	mapPath := flag.String("map", "", "Map file (JSON)")
	rulesPath := flag.String("rules", "", "Rules overrides (YAML)")
	scriptPath := flag.String("script", "", "Order script to replay (YAML)")
	seed := flag.Uint64("seed", 0, "First seed of the replay, overrides the script")
	out := flag.String("out", meta.OUTPUT_DIR, "Directory for replay records")
	schemaPath := flag.String("schema", "", "Write the map JSON Schema to this path and exit")
	verbose := flag.Bool("v", false, "Log debug output")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *schemaPath != "" {
		if err := writeSchema(*schemaPath, mapdata.Schema()); err != nil {
			log.Fatal().Err(err).Msg("failed to write schema")
		}
		log.Info().Msgf("wrote map schema to %s", *schemaPath)
		return
	}

	if *mapPath == "" || *scriptPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := game.DefaultConfig()
	if *rulesPath != "" {
		var err error
		cfg, err = game.LoadConfig(*rulesPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load rules")
		}
	}

	state, err := mapdata.LoadFile(*mapPath, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load map")
	}
	script, err := experiments.LoadScript(*scriptPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load script")
	}
	if *seed != 0 {
		script.Seed = *seed
	}

	dir, err := experiments.Run(state, cfg, script, *out)
	if err != nil {
		log.Fatal().Err(err).Msg("replay failed")
	}
	log.Info().Msgf("records written to %s", dir)
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}
	if err := os.WriteFile(outPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write schema: %w", err)
	}
	return nil
}
