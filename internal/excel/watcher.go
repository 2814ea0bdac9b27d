package excel

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/logger"
)

const (
	scanInterval = 10 * time.Second
	errorPause   = 30 * time.Second
)

// NotifyFunc receives the result of an automatic import so the bot can DM
// the admin. err is nil on success.
type NotifyFunc func(fileName string, report *Report, err error)

// Watcher polls a directory for new Excel workbooks and imports them. A
// processed-file ledger (name plus mtime) persists across restarts so the
// same workbook is not imported twice.
type Watcher struct {
	mu         sync.Mutex
	dir        string
	ledgerPath string
	importer   *Importer
	notify     NotifyFunc
	processed  map[string]bool
}

type ledgerFile struct {
	Files []string `json:"files"`
}

// NewWatcher creates a watcher over dir with its ledger at ledgerPath.
// notify may be nil.
func NewWatcher(dir, ledgerPath string, importer *Importer, notify NotifyFunc) *Watcher {
	return &Watcher{
		dir:        dir,
		ledgerPath: ledgerPath,
		importer:   importer,
		notify:     notify,
		processed:  make(map[string]bool),
	}
}

// Run polls every 10 seconds until ctx is canceled, pausing longer after a
// scan error.
func (w *Watcher) Run(ctx context.Context) {
	w.loadLedger()
	logger.Info("surveillance des fichiers Excel activée", logger.Fields{"dir": w.dir})

	for {
		pause := scanInterval
		if err := w.Scan(); err != nil {
			logger.Warn("erreur vérification fichiers Excel", logger.Fields{"error": err.Error()})
			pause = errorPause
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(pause):
		}
	}
}

// Scan imports every workbook in the directory not yet in the ledger.
func (w *Watcher) Scan() error {
	var files []string
	for _, pattern := range []string{"*.xlsx", "*.xls"} {
		matches, err := filepath.Glob(filepath.Join(w.dir, pattern))
		if err != nil {
			return fmt.Errorf("scanning %s: %w", w.dir, err)
		}
		files = append(files, matches...)
	}

	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		key := fmt.Sprintf("%s_%d", filepath.Base(path), info.ModTime().Unix())

		w.mu.Lock()
		seen := w.processed[key]
		w.mu.Unlock()
		if seen {
			continue
		}

		logger.Info("nouveau fichier Excel détecté", logger.Fields{"file": filepath.Base(path)})
		report, err := w.importer.ImportFile(path, true)
		if err != nil {
			logger.Error("import Excel automatique échoué", logger.Fields{"file": path}, err)
		} else {
			logger.IncrCounter("excel.auto_imports")
		}
		if w.notify != nil {
			w.notify(filepath.Base(path), report, err)
		}

		w.mu.Lock()
		w.processed[key] = true
		w.mu.Unlock()
		w.saveLedger()
	}
	return nil
}

func (w *Watcher) loadLedger() {
	raw, err := os.ReadFile(w.ledgerPath)
	if err != nil {
		return
	}
	var f ledgerFile
	if err := json.Unmarshal(raw, &f); err != nil {
		logger.Warn("ledger des fichiers traités illisible", logger.Fields{"error": err.Error()})
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, key := range f.Files {
		w.processed[key] = true
	}
}

func (w *Watcher) saveLedger() {
	w.mu.Lock()
	f := ledgerFile{Files: make([]string, 0, len(w.processed))}
	for key := range w.processed {
		f.Files = append(f.Files, key)
	}
	w.mu.Unlock()

	raw, err := json.Marshal(f)
	if err != nil {
		return
	}
	if err := os.WriteFile(w.ledgerPath, raw, 0644); err != nil {
		logger.Warn("sauvegarde du ledger échouée", logger.Fields{"error": err.Error()})
	}
}
