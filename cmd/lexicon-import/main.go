package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"wordforge/internal/logger"
	"wordforge/internal/sources/lexicon"
	sqlitestore "wordforge/internal/store/sqlite"
)

// lexicon-import loads yaml term files into the lexicon. Files are tracked
// by content hash, so re-running the tool only touches changed files.
func main() {
	var (
		dir    = flag.String("dir", envOr("FORGE_LEXICON_DIR", "/app/lexicon"), "directory of lexicon yaml files")
		dbPath = flag.String("db", envOr("FORGE_SQLITE_PATH", "/app/data/wordforge.db"), "path to the database")
		force  = flag.Bool("force", false, "import even when the file hash is unchanged")
	)
	flag.Parse()

	log := logger.New(envOr("FORGE_LOG_LEVEL", "info"), true)

	if err := run(context.Background(), log, *dir, *dbPath, *force); err != nil {
		log.Errorf("import failed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log logger.Logger, dir, dbPath string, force bool) error {
	store, err := sqlitestore.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = store.Close() }()
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	files, err := lexicon.ListSourceFiles(dir)
	if err != nil {
		return fmt.Errorf("list source files: %w", err)
	}
	if len(files) == 0 {
		log.Warnf("no yaml files found in %s", dir)
		return nil
	}

	mapper := lexicon.NewMapper()
	var imported, skipped, failed int

	for _, path := range files {
		name := filepath.Base(path)

		hash, err := hashFile(path)
		if err != nil {
			log.Errorf("hash %s: %v", name, err)
			failed++
			continue
		}

		last, err := store.LastImportedHash(ctx, name)
		if err != nil {
			log.Errorf("read import log for %s: %v", name, err)
			failed++
			continue
		}
		if !force && last == hash {
			log.Debugf("skipping %s, unchanged", name)
			skipped++
			continue
		}

		count, err := importFile(ctx, store, mapper, path)
		if err != nil {
			log.Errorf("import %s: %v", name, err)
			if logErr := store.UpsertImportLog(ctx, name, hash, "failed"); logErr != nil {
				log.Errorf("record failure for %s: %v", name, logErr)
			}
			failed++
			continue
		}

		if err := store.UpsertImportLog(ctx, name, hash, "success"); err != nil {
			log.Errorf("record success for %s: %v", name, err)
			failed++
			continue
		}

		log.Infof("imported %s: %d new terms", name, count)
		imported++
	}

	total, err := store.TermCount(ctx)
	if err != nil {
		return fmt.Errorf("count terms: %w", err)
	}
	log.Infof("done: %d imported, %d unchanged, %d failed, %d terms in lexicon",
		imported, skipped, failed, total)

	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	return nil
}

func importFile(ctx context.Context, store *sqlitestore.Store, mapper *lexicon.Mapper, path string) (int, error) {
	file, err := lexicon.NewLoader(path).Load()
	if err != nil {
		return 0, err
	}
	terms, err := mapper.MapTerms(file, path)
	if err != nil {
		return 0, err
	}
	return store.InsertTerms(ctx, terms)
}

func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
