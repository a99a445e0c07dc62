package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"napoleon/game"
)

type RoundRecord struct {
	Run  int
	Seed uint64
	RoundMetric
}

type ForceRecord struct {
	Run int
	ForceMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a timestamped folder under dir for one batch of runs.
func NewWriter(dir, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(dir, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteRoundRecords(records []RoundRecord) error {
	path := filepath.Join(w.baseDir, "rounds.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create rounds file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"run", "seed", "turn", "duration", "moves", "forced_marches", "blocked", "combats",
		"avoided", "retreats", "held_position", "eliminated", "detachments_returned", "rests_ended", "ae", "ar", "ne", "dr", "de"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write rounds header: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.Itoa(record.Run),
			strconv.FormatUint(record.Seed, 10),
			strconv.Itoa(record.Turn),
			record.Duration.String(),
			strconv.Itoa(record.Moves),
			strconv.Itoa(record.ForcedMarches),
			strconv.Itoa(record.Blocked),
			strconv.Itoa(record.Combats),
			strconv.Itoa(record.Avoided),
			strconv.Itoa(record.Retreats),
			strconv.Itoa(record.HeldPosition),
			strconv.Itoa(record.Eliminated),
			strconv.Itoa(record.DetachmentsReturned),
			strconv.Itoa(record.RestsEnded),
			strconv.Itoa(record.Outcomes[game.AttackerEliminated]),
			strconv.Itoa(record.Outcomes[game.AttackerRetreat]),
			strconv.Itoa(record.Outcomes[game.NoEffect]),
			strconv.Itoa(record.Outcomes[game.DefenderRetreat]),
			strconv.Itoa(record.Outcomes[game.DefenderEliminated]),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write round row: %w", err)
		}
	}

	return nil
}

func (w *Writer) WriteForceRecords(records []ForceRecord) error {
	path := filepath.Join(w.baseDir, "forces.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create forces file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"run", "turn", "team", "units", "strength", "effective"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write forces header: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.Itoa(record.Run),
			strconv.Itoa(record.Turn),
			string(record.Team),
			strconv.Itoa(record.Units),
			strconv.Itoa(record.Strength),
			strconv.Itoa(record.Effective),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write force row: %w", err)
		}
	}

	return nil
}
