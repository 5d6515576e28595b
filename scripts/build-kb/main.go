// build-kb assembles the additive knowledge base dataset from a regulator
// CSV export plus a curated YAML overlay, normalizes every alias, and writes
// the JSON file embedded into the engine (pkg/kb/data/additives.json).
//
// The CSV carries one additive per row:
//
//	canonical_id,display_name_en,display_name_zh,risk_level,child_risk,regulatory_note_en,regulatory_note_zh,aliases
//
// with aliases pipe-separated. The YAML overlay can override any field of a
// CSV row, add additives the export lacks, and supplies the whole-food
// safelist. The output is re-loaded through the engine's own KB loader so a
// dataset that would fail at startup fails here instead.
//
// Usage: go run ./scripts/build-kb -csv tfda_additives.csv -overlay overrides.yaml -out pkg/kb/data/additives.json
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/labelscan/labelscan-engine/pkg/kb"
	"github.com/labelscan/labelscan-engine/pkg/models"
)

// overlay is the YAML overlay file shape.
type overlay struct {
	// Additives are merged over CSV rows by canonical_id; rows absent from
	// the CSV are appended.
	Additives []overlayAdditive `yaml:"additives"`
	Safelist  []string          `yaml:"safelist"`
}

// overlayAdditive mirrors models.AdditiveRecord with every field optional
// so an entry can override a single field without restating the rest.
type overlayAdditive struct {
	CanonicalID      string   `yaml:"canonical_id"`
	DisplayNameEn    string   `yaml:"display_name_en"`
	DisplayNameZh    string   `yaml:"display_name_zh"`
	Aliases          []string `yaml:"aliases"`
	ExtraAliases     []string `yaml:"extra_aliases"`
	RiskLevel        string   `yaml:"risk_level"`
	ChildRisk        string   `yaml:"child_risk"`
	RegulatoryNoteEn string   `yaml:"regulatory_note_en"`
	RegulatoryNoteZh string   `yaml:"regulatory_note_zh"`
}

// dataset matches the on-disk shape pkg/kb loads.
type dataset struct {
	Additives []*models.AdditiveRecord `json:"additives"`
	Safelist  []string                 `json:"safelist"`
}

func main() {
	csvPath := flag.String("csv", "", "regulator CSV export (optional)")
	overlayPath := flag.String("overlay", "", "curated YAML overlay (optional)")
	outPath := flag.String("out", "pkg/kb/data/additives.json", "output dataset path")
	flag.Parse()

	if *csvPath == "" && *overlayPath == "" {
		fmt.Fprintln(os.Stderr, "at least one of -csv or -overlay is required")
		os.Exit(1)
	}

	byID := make(map[string]*models.AdditiveRecord)
	var order []string

	if *csvPath != "" {
		records, err := readCSV(*csvPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read CSV: %v\n", err)
			os.Exit(1)
		}
		for _, rec := range records {
			if _, dup := byID[rec.CanonicalID]; dup {
				fmt.Fprintf(os.Stderr, "Duplicate canonical_id %q in CSV\n", rec.CanonicalID)
				os.Exit(1)
			}
			byID[rec.CanonicalID] = rec
			order = append(order, rec.CanonicalID)
		}
	}

	var safelist []string
	if *overlayPath != "" {
		ov, err := readOverlay(*overlayPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read overlay: %v\n", err)
			os.Exit(1)
		}
		safelist = ov.Safelist

		for _, o := range ov.Additives {
			if o.CanonicalID == "" {
				fmt.Fprintln(os.Stderr, "Overlay additive missing canonical_id")
				os.Exit(1)
			}
			rec, exists := byID[o.CanonicalID]
			if !exists {
				rec = &models.AdditiveRecord{CanonicalID: o.CanonicalID}
				byID[o.CanonicalID] = rec
				order = append(order, o.CanonicalID)
			}
			applyOverlay(rec, o)
		}
	}

	var ds dataset
	for _, id := range order {
		rec := byID[id]
		rec.Aliases = normalizeAliases(rec.Aliases)
		ds.Additives = append(ds.Additives, rec)
	}
	for _, term := range safelist {
		ds.Safelist = append(ds.Safelist, kb.Normalize(term))
	}
	sort.Strings(ds.Safelist)

	out, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to marshal dataset: %v\n", err)
		os.Exit(1)
	}
	out = append(out, '\n')

	if err := os.WriteFile(*outPath, out, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", *outPath, err)
		os.Exit(1)
	}

	// Round-trip through the engine's loader so invariant violations
	// (duplicate IDs, ambiguous aliases, bad enum values) fail at build
	// time rather than at engine startup.
	if _, err := kb.Load(*outPath, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "Built dataset fails validation: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Wrote %s: %d additives, %d safelist terms\n",
		*outPath, len(ds.Additives), len(ds.Safelist))
}

func readCSV(path string) ([]*models.AdditiveRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 8

	// Skip header row
	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var records []*models.AdditiveRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		rec := &models.AdditiveRecord{
			CanonicalID:      strings.TrimSpace(row[0]),
			DisplayNameEn:    strings.TrimSpace(row[1]),
			DisplayNameZh:    strings.TrimSpace(row[2]),
			RiskLevel:        models.RiskLevel(strings.TrimSpace(row[3])),
			ChildRisk:        models.ChildRisk(strings.TrimSpace(row[4])),
			RegulatoryNoteEn: strings.TrimSpace(row[5]),
			RegulatoryNoteZh: strings.TrimSpace(row[6]),
		}
		for _, alias := range strings.Split(row[7], "|") {
			if alias = strings.TrimSpace(alias); alias != "" {
				rec.Aliases = append(rec.Aliases, alias)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func readOverlay(path string) (*overlay, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ov overlay
	if err := yaml.Unmarshal(b, &ov); err != nil {
		return nil, fmt.Errorf("parse overlay: %w", err)
	}
	return &ov, nil
}

// applyOverlay merges non-empty overlay fields over the CSV record.
// Aliases replaces the full list; extra_aliases appends instead.
func applyOverlay(rec *models.AdditiveRecord, o overlayAdditive) {
	if o.DisplayNameEn != "" {
		rec.DisplayNameEn = o.DisplayNameEn
	}
	if o.DisplayNameZh != "" {
		rec.DisplayNameZh = o.DisplayNameZh
	}
	if len(o.Aliases) > 0 {
		rec.Aliases = append([]string(nil), o.Aliases...)
	}
	rec.Aliases = append(rec.Aliases, o.ExtraAliases...)
	if o.RiskLevel != "" {
		rec.RiskLevel = models.RiskLevel(o.RiskLevel)
	}
	if o.ChildRisk != "" {
		rec.ChildRisk = models.ChildRisk(o.ChildRisk)
	}
	if o.RegulatoryNoteEn != "" {
		rec.RegulatoryNoteEn = o.RegulatoryNoteEn
	}
	if o.RegulatoryNoteZh != "" {
		rec.RegulatoryNoteZh = o.RegulatoryNoteZh
	}
}

// normalizeAliases lowercases and whitespace-normalizes, dropping duplicates
// and empties while keeping first-seen order.
func normalizeAliases(aliases []string) []string {
	seen := make(map[string]struct{}, len(aliases))
	var out []string
	for _, a := range aliases {
		norm := kb.Normalize(a)
		if norm == "" {
			continue
		}
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	return out
}
