package workload

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/turboinfra/turboinfra/pkg/types"
)

// file mirrors the on-disk JSON layout. Pointers distinguish absent fields
// from zero values.
type file struct {
	Model *struct {
		Ops []string `json:"ops"`
	} `json:"model"`
	Hardware *string `json:"hardware"`
}

// Load reads and decodes the workload description at path.
func Load(path string) (*types.Workload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("workload: read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a workload description from raw JSON.
func Parse(data []byte) (*types.Workload, error) {
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("workload: parse json: %w", err)
	}

	w := &types.Workload{
		Ops:      []string{},
		Hardware: types.UnknownHardware,
	}
	if f.Model != nil && f.Model.Ops != nil {
		w.Ops = f.Model.Ops
	}
	if f.Hardware != nil {
		w.Hardware = *f.Hardware
	}
	return w, nil
}
