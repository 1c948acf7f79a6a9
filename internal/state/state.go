package state

import (
	"encoding/json"
	"os"
	"time"

	"vsat-setup/internal/logger"
)

// StageState records what a provisioning stage last did: when it completed,
// what it installed where, and which remote it came from. This is purely
// informational for the `status` command — the on-disk markers remain the
// only guards the provisioner trusts.
type StageState struct {
	CompletedAt time.Time `json:"completed_at"`
	InstallPath string    `json:"install_path,omitempty"` // Path the stage produced
	SourceURL   string    `json:"source_url,omitempty"`   // Remote archive the stage fetched, if any
	Skipped     bool      `json:"skipped"`                // True when the guard short-circuited the stage
}

// State holds the saved provisioning record, keyed by stage name.
type State struct {
	Stages map[string]StageState `json:"stages"`
}

// Record stores the outcome of a stage, overwriting any previous entry.
func (s *State) Record(stage string, st StageState) {
	if st.CompletedAt.IsZero() {
		st.CompletedAt = time.Now()
	}
	s.Stages[stage] = st
}

// Load reads the saved state from a JSON file at the given path.
// If the file does not exist or cannot be read, it returns a fresh State.
func Load(path string) *State {
	file, err := os.ReadFile(path)
	if err != nil {
		return &State{Stages: make(map[string]StageState)}
	}

	var st State
	_ = json.Unmarshal(file, &st)

	// Defensive: the file may contain null for the map.
	if st.Stages == nil {
		st.Stages = make(map[string]StageState)
	}
	return &st
}

// Save writes the state to a JSON file at the given path, pretty-printed.
// Errors are logged but not propagated; losing the record never fails a run.
func Save(path string, st *State) {
	file, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		logger.Error("[ERROR] Failed to marshal state: %v\n", err)
		return
	}

	logger.Debug("[DEBUG] Writing state to %s:\n%s\n", path, string(file))

	if err := os.WriteFile(path, file, 0644); err != nil {
		logger.Error("[ERROR] Failed to write state file %s: %v\n", path, err)
	}
}
