// Package snapshot persists full simulation state: every site's cohort
// arrays plus the scenario parameters needed to resume a run. Files are
// zstd-compressed with a one-line JSON header followed by a gob body;
// the header lets tools identify a snapshot without decoding the body.
package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

type Header struct {
	Version  int    `json:"version"`
	Scenario string `json:"scenario"`
	Year     int    `json:"year"`
}

type SnapshotV1 struct {
	Header Header `json:"header"`

	SuccessionStep int    `json:"succession_step"`
	SpeciesDigest  string `json:"species_digest,omitempty"`

	Species []SpeciesV1 `json:"species"`
	Sites   []SiteV1    `json:"sites"`
}

type SpeciesV1 struct {
	Name      string `json:"name"`
	Longevity uint16 `json:"longevity"`
	Maturity  uint16 `json:"maturity"`
}

type SiteV1 struct {
	ID      string             `json:"id"`
	Cohorts []SpeciesCohortsV1 `json:"cohorts"`
}

type SpeciesCohortsV1 struct {
	Species string     `json:"species"`
	Cohorts []CohortV1 `json:"cohorts"` // oldest to youngest, exact maintenance order
}

type CohortV1 struct {
	Age  uint16  `json:"age"`
	Wood float32 `json:"wood"`
	Leaf float32 `json:"leaf"`
}

func WriteSnapshot(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 64*1024)
	defer bw.Flush()

	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return nil
}

func ReadSnapshot(path string) (SnapshotV1, error) {
	var snap SnapshotV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 64*1024)

	// Skip the header line; the gob body repeats it.
	_, _ = br.ReadBytes('\n')

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	return snap, nil
}
