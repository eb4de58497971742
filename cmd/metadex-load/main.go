// Command metadex-load populates the metadata store with record files.
// Each input file holds one record type: a JSON object keyed by the file
// stem, whose value is the list of records for that collection.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/metadex/internal/config"
	dbMongo "github.com/kailas-cloud/metadex/internal/db/mongo"
	logpkg "github.com/kailas-cloud/metadex/internal/logger"
)

// recordType binds an input file stem to its target collection.
type recordType struct {
	stem       string
	collection string
}

var recordTypes = []recordType{
	{"analyses", "Analysis"},
	{"biospecimens", "Biospecimen"},
	{"data_access_committees", "DataAccessCommittee"},
	{"data_access_policies", "DataAccessPolicy"},
	{"datasets", "Dataset"},
	{"dataset_embedded", "DatasetEmbedded"},
	{"dataset_summary", "DatasetSummary"},
	{"disease_or_phenotypic_features", "DiseaseOrPhenotypicFeature"},
	{"experiments", "Experiment"},
	{"files", "File"},
	{"individuals", "Individual"},
	{"library_preperation_protocols", "LibraryPreparationProtocol"},
	{"members", "Member"},
	{"metadata_summary", "MetadataSummary"},
	{"phenotypic_features", "PhenotypicFeature"},
	{"projects", "Project"},
	{"protocols", "Protocol"},
	{"publications", "Publication"},
	{"samples", "Sample"},
	{"sequencing_protocols", "SequencingProtocol"},
	{"studies", "Study"},
	{"submissions", "Submission"},
}

func main() {
	dataDir := flag.String("data", "example_data", "directory holding <record_type>.json files")
	reload := flag.Bool("reload", false, "allow inserting into non-empty collections")
	purge := flag.Bool("purge", false, "delete every record from every collection and exit")
	flag.Parse()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	store, err := dbMongo.NewStore(ctx, dbMongo.Config{
		URI:      cfg.Database.URI,
		Database: cfg.Database.Name,
	})
	if err != nil {
		logger.Fatal("Failed to create metadata store", zap.Error(err))
	}
	defer func() { _ = store.Close(context.Background()) }()

	if *purge {
		if err := purgeAll(ctx, store, logger); err != nil {
			logger.Fatal("Purge failed", zap.Error(err))
		}
		logger.Info("All collections purged")
		return
	}

	if _, err := os.Stat(*dataDir); err != nil {
		logger.Fatal("Data directory does not exist", zap.String("dir", *dataDir))
	}

	if err := loadAll(ctx, store, *dataDir, *reload, logger); err != nil {
		logger.Fatal("Load failed", zap.Error(err))
	}
	logger.Info("Done")
}

func loadAll(ctx context.Context, store *dbMongo.Store, dataDir string, reload bool, logger *zap.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, rt := range recordTypes {
		rt := rt
		g.Go(func() error {
			return loadRecordType(ctx, store, dataDir, rt, reload, logger)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load record types: %w", err)
	}
	return nil
}

func loadRecordType(
	ctx context.Context,
	store *dbMongo.Store,
	dataDir string,
	rt recordType,
	reload bool,
	logger *zap.Logger,
) error {
	count, err := store.CountDocuments(ctx, rt.collection)
	if err != nil {
		return err
	}
	if count > 0 && !reload {
		return fmt.Errorf("cannot write to a non-empty %s collection", rt.collection)
	}

	records, err := readRecords(filepath.Join(dataDir, rt.stem+".json"), rt.stem)
	if err != nil {
		return err
	}

	if len(records) > 0 {
		if err := store.InsertMany(ctx, rt.collection, records); err != nil {
			return err
		}
	}
	if err := store.EnsureTextIndex(ctx, rt.collection); err != nil {
		return err
	}

	logger.Info("Loaded record type",
		zap.String("record_type", rt.stem),
		zap.String("collection", rt.collection),
		zap.Int("records", len(records)),
	)
	return nil
}

// readRecords reads {<stem>: [records]} from a record file. A missing
// file means the record type has no example data and is skipped.
func readRecords(path, stem string) ([]map[string]any, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var wrapper map[string][]map[string]any
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return wrapper[stem], nil
}

func purgeAll(ctx context.Context, store *dbMongo.Store, logger *zap.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, rt := range recordTypes {
		rt := rt
		g.Go(func() error {
			if err := store.DeleteAll(ctx, rt.collection); err != nil {
				return err
			}
			logger.Info("Purged collection", zap.String("collection", rt.collection))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("purge collections: %w", err)
	}
	return nil
}
