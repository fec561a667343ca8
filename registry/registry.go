// Package registry builds the clients shared by the registry binaries from
// the environment and the app config.
package registry

import (
	"os"
	"strings"

	"github.com/Luismorlan/trackhubs/app_config"
	"github.com/Luismorlan/trackhubs/clients"
	"github.com/Luismorlan/trackhubs/enrichment"
	"github.com/Luismorlan/trackhubs/hubcheck"
	"github.com/Luismorlan/trackhubs/hubparser"
	"github.com/Luismorlan/trackhubs/liveness"
	"github.com/Luismorlan/trackhubs/reference"
	"github.com/Luismorlan/trackhubs/reference/dump_store"
	"github.com/Luismorlan/trackhubs/search"
	"github.com/Luismorlan/trackhubs/store"
	"github.com/Luismorlan/trackhubs/translator"
	"github.com/Luismorlan/trackhubs/utils"
	Logger "github.com/Luismorlan/trackhubs/utils/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	// Comma separated Elasticsearch endpoints.
	EnvEsAddresses = "ES_ADDRESSES"
	EnvDumpBucket  = "DUMP_S3_BUCKET"
	EnvAwsRegion   = "AWS_REGION"

	defaultEsAddress = "http://localhost:9200"
)

// Registry holds every long lived client of one process.
type Registry struct {
	Config   app_config.RegistryAppConfig
	DB       *gorm.DB
	Store    *store.Store
	Indexer  search.Indexer
	Checker  *liveness.Checker
	Enricher *enrichment.Job
}

// New connects to the database and the search index. Nothing is contacted
// beyond opening the connections.
func New(config app_config.RegistryAppConfig) (*Registry, error) {
	db, err := utils.GetDBConnection()
	if err != nil {
		return nil, errors.Wrap(err, "connect to database")
	}
	if err := utils.DatabaseSetupAndMigration(db); err != nil {
		return nil, errors.Wrap(err, "migrate database")
	}
	indexer, err := search.NewElasticIndexer(EsAddresses(), config.SEARCH_INDEX_NAME, config.SearchTimeout(), config.SEARCH_MAX_RETRY)
	if err != nil {
		return nil, err
	}
	return NewWith(config, db, indexer), nil
}

// NewWith builds a Registry on top of an open database and an indexer.
func NewWith(config app_config.RegistryAppConfig, db *gorm.DB, indexer search.Indexer) *Registry {
	s := store.New(db)
	checker := liveness.NewChecker(liveness.NewSchemeProber(config.ProbeTimeout()), config.PROBE_CONCURRENCY, config.ProbeTimeout())
	return &Registry{
		Config:   config,
		DB:       db,
		Store:    s,
		Indexer:  indexer,
		Checker:  checker,
		Enricher: enrichment.NewJob(s, checker, indexer),
	}
}

// EsAddresses reads ES_ADDRESSES, defaulting to a local node.
func EsAddresses() []string {
	raw := os.Getenv(EnvEsAddresses)
	if raw == "" {
		return []string{defaultEsAddress}
	}
	addresses := []string{}
	for _, a := range strings.Split(raw, ",") {
		if a = strings.TrimSpace(a); a != "" {
			addresses = append(addresses, a)
		}
	}
	return addresses
}

// HubLocker uses redis when REDIS_HOST is set and an in-process lock
// otherwise.
func (r *Registry) HubLocker() utils.HubLocker {
	if os.Getenv("REDIS_HOST") == "" {
		Logger.Log.Warnln("REDIS_HOST is not set, hub submissions are only serialised within this process")
		return utils.NewLocalHubLocker()
	}
	return utils.NewRedisHubLocker(utils.GetRedisClient(), r.Config.HubLockTTL())
}

// Translator wires the submission pipeline.
func (r *Registry) Translator(locker utils.HubLocker) *translator.Translator {
	return translator.NewTranslator(
		hubparser.NewParser(hubparser.NewRemoteFetcher(r.Config.FetchTimeout())),
		reference.NewResolver(r.Store, nil),
		r.Store,
		hubcheck.NewKentHubCheck(r.Config.HUBCHECK_PATH, r.Config.HUBCHECK_DOWNLOAD_URL, clients.NewDefaultHttpClient()),
		r.Checker,
		r.Indexer,
		locker,
	)
}

// DumpStore is where imported assembly feeds are kept, per DUMP_STORE_KIND.
func (r *Registry) DumpStore() (dump_store.DumpStore, error) {
	switch r.Config.DUMP_STORE_KIND {
	case "local":
		return dump_store.NewLocalDumpStore(r.Config.DUMP_STORE_DIR), nil
	case "s3":
		return dump_store.NewS3DumpStore(os.Getenv(EnvDumpBucket), os.Getenv(EnvAwsRegion))
	}
	return nil, errors.Errorf("unknown dump store kind %q", r.Config.DUMP_STORE_KIND)
}

// Importer loads the assembly reference table.
func (r *Registry) Importer() (*reference.Importer, error) {
	dumps, err := r.DumpStore()
	if err != nil {
		return nil, err
	}
	return reference.NewImporter(clients.NewDefaultHttpClient(), r.Config.ASSEMBLY_DUMP_SOURCE_URL, dumps, r.Store, nil), nil
}
