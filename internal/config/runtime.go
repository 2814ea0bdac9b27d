package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/store"
)

const (
	keyStatChannel        = "stat_channel"
	keyDisplayChannel     = "display_channel"
	keyPredictionInterval = "prediction_interval"
)

// Runtime is the channel configuration the admin adjusts while the bot runs.
// It persists to a JSON file with the YAML store as a secondary sink; load
// precedence is JSON > store > environment defaults.
type Runtime struct {
	mu       sync.Mutex
	path     string
	db       *store.DB
	stat     int64
	display  int64
	interval int
}

type runtimeFile struct {
	StatChannel        int64 `json:"stat_channel"`
	DisplayChannel     int64 `json:"display_channel"`
	PredictionInterval int   `json:"prediction_interval"`
}

// LoadRuntime resolves the runtime channel configuration.
func LoadRuntime(path string, db *store.DB, cfg *Config) (*Runtime, error) {
	r := &Runtime{
		path:     path,
		db:       db,
		stat:     cfg.StatChannel,
		display:  cfg.DisplayChannel,
		interval: 1,
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		var f runtimeFile
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if f.StatChannel != 0 {
			r.stat = f.StatChannel
		}
		if f.DisplayChannel != 0 {
			r.display = f.DisplayChannel
		}
		if f.PredictionInterval > 0 {
			r.interval = f.PredictionInterval
		}
		return r, nil
	case os.IsNotExist(err):
		r.loadFromStore()
		return r, nil
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
}

func (r *Runtime) loadFromStore() {
	if r.db == nil {
		return
	}
	if v, ok := r.db.Get(keyStatChannel); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n != 0 {
			r.stat = n
		}
	}
	if v, ok := r.db.Get(keyDisplayChannel); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n != 0 {
			r.display = n
		}
	}
	if v, ok := r.db.Get(keyPredictionInterval); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			r.interval = n
		}
	}
}

// StatChannel returns the configured statistics (source) channel, 0 when
// unset.
func (r *Runtime) StatChannel() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stat
}

// DisplayChannel returns the configured prediction-output channel.
func (r *Runtime) DisplayChannel() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.display
}

// PredictionInterval returns the configured interval in minutes.
func (r *Runtime) PredictionInterval() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.interval
}

// SetStatChannel updates the statistics channel and persists.
func (r *Runtime) SetStatChannel(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stat = id
	return r.save()
}

// SetDisplayChannel updates the prediction-output channel and persists.
func (r *Runtime) SetDisplayChannel(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.display = id
	return r.save()
}

// SetChannels updates both channels in one persisted write.
func (r *Runtime) SetChannels(stat, display int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stat = stat
	r.display = display
	return r.save()
}

// Persist rewrites both sinks from the current values. Used after the YAML
// store has been reset so the backup copy comes back.
func (r *Runtime) Persist() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save()
}

// Saved reports whether the JSON configuration file exists on disk.
func (r *Runtime) Saved() bool {
	_, err := os.Stat(r.path)
	return err == nil
}

// save writes both sinks. Caller must hold r.mu.
func (r *Runtime) save() error {
	if r.db != nil {
		// The store is a backup sink; its failures are non-fatal for the
		// JSON write below but still reported.
		_ = r.db.Set(keyStatChannel, strconv.FormatInt(r.stat, 10))
		_ = r.db.Set(keyDisplayChannel, strconv.FormatInt(r.display, 10))
		_ = r.db.Set(keyPredictionInterval, strconv.Itoa(r.interval))
	}

	f := runtimeFile{
		StatChannel:        r.stat,
		DisplayChannel:     r.display,
		PredictionInterval: r.interval,
	}
	raw, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding runtime config: %w", err)
	}
	if err := os.WriteFile(r.path, raw, 0644); err != nil {
		return fmt.Errorf("writing runtime config: %w", err)
	}
	return nil
}
