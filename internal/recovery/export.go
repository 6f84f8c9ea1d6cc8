package recovery

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"
)

// planFile is the on-disk form of a Plan: a reviewable JSON document that
// can be applied later with the exact versions the scan selected.
type planFile struct {
	Prefix   string            `json:"prefix"`
	Cutoff   time.Time         `json:"cutoff"`
	Targets  map[string]Target `json:"targets"`
	Orphans  []string          `json:"orphans"`
	SavedAt  time.Time         `json:"saved_at"`
	Versions int               `json:"versions_scanned"`
}

// WritePlanFile saves a plan to path. A ".zst" suffix switches on zstd
// compression. Returns the blake3 digest of the uncompressed encoding so
// the summary can record what exactly was written.
func WritePlanFile(path string, plan *Plan) (string, error) {
	pf := planFile{
		Prefix:   plan.Prefix,
		Cutoff:   plan.Cutoff,
		Targets:  plan.Targets,
		Orphans:  make([]string, 0, len(plan.Orphans)),
		SavedAt:  time.Now().UTC(),
		Versions: plan.Scanned,
	}
	for k := range plan.Orphans {
		pf.Orphans = append(pf.Orphans, k)
	}
	sort.Strings(pf.Orphans)

	data, err := json.MarshalIndent(pf, "", "  ")
	if err != nil {
		return "", fmt.Errorf("plan marshal: %w", err)
	}
	digest := blake3.Sum256(data)

	if strings.HasSuffix(path, ".zst") {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return "", fmt.Errorf("zstd writer: %w", err)
		}
		data = enc.EncodeAll(data, nil)
		_ = enc.Close()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write plan %s: %w", path, err)
	}
	return hex.EncodeToString(digest[:]), nil
}

// ReadPlanFile loads a plan saved by WritePlanFile and reports the blake3
// digest of its uncompressed encoding.
func ReadPlanFile(path string) (*Plan, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read plan %s: %w", path, err)
	}
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, "", fmt.Errorf("zstd reader: %w", err)
		}
		data, err = dec.DecodeAll(data, nil)
		dec.Close()
		if err != nil {
			return nil, "", fmt.Errorf("decompress plan %s: %w", path, err)
		}
	}
	digest := blake3.Sum256(data)

	var pf planFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, "", fmt.Errorf("plan unmarshal %s: %w", path, err)
	}

	plan := &Plan{
		Prefix:  pf.Prefix,
		Cutoff:  pf.Cutoff,
		Targets: pf.Targets,
		Orphans: make(map[string]struct{}, len(pf.Orphans)),
		Scanned: pf.Versions,
	}
	if plan.Targets == nil {
		plan.Targets = make(map[string]Target)
	}
	for _, k := range pf.Orphans {
		plan.Orphans[k] = struct{}{}
	}
	return plan, hex.EncodeToString(digest[:]), nil
}
