package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"scenario_valuation/pkg/core/scenario"
)

// ScenarioVault persists named scenarios. DB is primary; when pool is nil it
// falls back to one JSON file per scenario under fileDir. Round-trip fidelity
// on every numeric driver field is a hard requirement, which encoding/json
// satisfies for float64.
type ScenarioVault struct {
	pool    *pgxpool.Pool
	fileDir string
}

// NewScenarioVault builds a vault. nil pool and empty dir default to a local
// cache directory.
func NewScenarioVault(pool *pgxpool.Pool, dir string) *ScenarioVault {
	if pool == nil && dir == "" {
		dir = filepath.Join(".cache", "scenarios")
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("[WARNING] Check ScenarioVault dir: %v\n", err)
		}
	}
	return &ScenarioVault{pool: pool, fileDir: dir}
}

// Record wraps a scenario with persistence metadata.
type Record struct {
	Scenario scenario.Scenario `json:"scenario"`
	SavedAt  time.Time         `json:"saved_at"`
}

// Save upserts a scenario.
func (v *ScenarioVault) Save(ctx context.Context, sc scenario.Scenario) error {
	if sc.ID == "" {
		return fmt.Errorf("cannot persist a scenario without an id")
	}
	rec := Record{Scenario: sc, SavedAt: time.Now().UTC()}

	if v.pool != nil {
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal scenario: %w", err)
		}
		query := `
			INSERT INTO scenarios (id, name, record, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, record = EXCLUDED.record, updated_at = now()
		`
		if _, err := v.pool.Exec(ctx, query, sc.ID, sc.Name, payload); err != nil {
			return fmt.Errorf("failed to persist scenario '%s': %w", sc.ID, err)
		}
		return nil
	}

	return v.saveToFile(rec)
}

// Load retrieves a scenario by id, nil when absent.
func (v *ScenarioVault) Load(ctx context.Context, id string) (*scenario.Scenario, error) {
	if v.pool != nil {
		var payload []byte
		err := v.pool.QueryRow(ctx,
			`SELECT record FROM scenarios WHERE id = $1 LIMIT 1`, id).Scan(&payload)
		if err != nil {
			return nil, nil // miss
		}
		var rec Record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scenario record: %w", err)
		}
		return &rec.Scenario, nil
	}

	return v.loadFromFile(v.filePath(id))
}

// List returns all persisted scenarios.
func (v *ScenarioVault) List(ctx context.Context) ([]scenario.Scenario, error) {
	if v.pool != nil {
		rows, err := v.pool.Query(ctx, `SELECT record FROM scenarios ORDER BY updated_at`)
		if err != nil {
			return nil, fmt.Errorf("failed to list scenarios: %w", err)
		}
		defer rows.Close()

		var out []scenario.Scenario
		for rows.Next() {
			var payload []byte
			if err := rows.Scan(&payload); err != nil {
				return nil, err
			}
			var rec Record
			if err := json.Unmarshal(payload, &rec); err != nil {
				return nil, fmt.Errorf("failed to unmarshal scenario record: %w", err)
			}
			out = append(out, rec.Scenario)
		}
		return out, rows.Err()
	}

	entries, err := os.ReadDir(v.fileDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []scenario.Scenario
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		sc, err := v.loadFromFile(filepath.Join(v.fileDir, e.Name()))
		if err != nil {
			fmt.Printf("[WARNING] Skipping unreadable scenario file %s: %v\n", e.Name(), err)
			continue
		}
		if sc != nil {
			out = append(out, *sc)
		}
	}
	return out, nil
}

// Delete removes a persisted scenario; absent ids are a no-op.
func (v *ScenarioVault) Delete(ctx context.Context, id string) error {
	if v.pool != nil {
		_, err := v.pool.Exec(ctx, `DELETE FROM scenarios WHERE id = $1`, id)
		return err
	}
	err := os.Remove(v.filePath(id))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (v *ScenarioVault) filePath(id string) string {
	// IDs are uuids or preset slugs; sanitize anyway before hitting the fs.
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, id)
	return filepath.Join(v.fileDir, safe+".json")
}

func (v *ScenarioVault) saveToFile(rec Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}
	return os.WriteFile(v.filePath(rec.Scenario.ID), data, 0644)
}

func (v *ScenarioVault) loadFromFile(path string) (*scenario.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scenario file: %w", err)
	}
	return &rec.Scenario, nil
}
