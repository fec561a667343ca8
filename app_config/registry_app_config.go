package app_config

import (
	"io/ioutil"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	DefaultProbeConcurrency      = 16
	DefaultProbeTimeoutSecond    = 10
	DefaultFetchTimeoutSecond    = 30
	DefaultHubCheckPath          = "tools/hubCheck"
	DefaultHubCheckDownloadURL   = "http://hgdownload.soe.ucsc.edu/admin/exe/linux.x86_64/hubCheck"
	DefaultSearchIndexName       = "trackhubs"
	DefaultSearchTimeoutSecond   = 300
	DefaultSearchMaxRetry        = 3
	DefaultHubLockTTLSecond      = 600
	DefaultEnrichmentSchedule    = "0 3 * * *"
	DefaultDumpStoreDir          = "assemblies_dump"
	DefaultDumpStoreKind         = "local"
	DefaultAssemblyDumpSourceURL = "https://www.ebi.ac.uk/ena/portal/api/search?dataPortal=ena&fields=accession,version,assembly_name,assembly_title,tax_id,scientific_name,last_updated&format=json&limit=0&offset=0&result=assembly"
)

// RegistryAppConfig tunes the registry binaries. Secrets and endpoints live in
// the environment (see utils/dotenv), this file only holds behaviour.
type RegistryAppConfig struct {
	// Max number of data file probes running at once for one trackdb.
	PROBE_CONCURRENCY int `yaml:"PROBE_CONCURRENCY"`
	// Per probe timeout.
	PROBE_TIMEOUT_SECOND int64 `yaml:"PROBE_TIMEOUT_SECOND"`
	// Timeout of a single descriptor file fetch.
	FETCH_TIMEOUT_SECOND int64 `yaml:"FETCH_TIMEOUT_SECOND"`
	// Location of the UCSC hubCheck binary, downloaded on first use if missing.
	HUBCHECK_PATH         string `yaml:"HUBCHECK_PATH"`
	HUBCHECK_DOWNLOAD_URL string `yaml:"HUBCHECK_DOWNLOAD_URL"`
	SEARCH_INDEX_NAME     string `yaml:"SEARCH_INDEX_NAME"`
	SEARCH_TIMEOUT_SECOND int64  `yaml:"SEARCH_TIMEOUT_SECOND"`
	// Retries of a search write that timed out.
	SEARCH_MAX_RETRY int `yaml:"SEARCH_MAX_RETRY"`
	// Expiry of a hub submission lock, in case the holder dies.
	HUB_LOCK_TTL_SECOND int64 `yaml:"HUB_LOCK_TTL_SECOND"`
	// Cron expression of the scheduled enrichment run.
	ENRICHMENT_SCHEDULE string `yaml:"ENRICHMENT_SCHEDULE"`
	// Where the assembly feed is fetched from.
	ASSEMBLY_DUMP_SOURCE_URL string `yaml:"ASSEMBLY_DUMP_SOURCE_URL"`
	// "local" or "s3".
	DUMP_STORE_KIND string `yaml:"DUMP_STORE_KIND"`
	// Directory of the local dump store.
	DUMP_STORE_DIR string `yaml:"DUMP_STORE_DIR"`
}

func DefaultRegistryAppConfig() RegistryAppConfig {
	c := RegistryAppConfig{}
	c.fillDefaults()
	return c
}

// ParseRegistryAppConfig reads the yaml file at path. An empty path returns the
// defaults.
func ParseRegistryAppConfig(path string) (RegistryAppConfig, error) {
	c := RegistryAppConfig{}
	if path != "" {
		yamlFile, err := ioutil.ReadFile(path)
		if err != nil {
			return c, errors.Wrap(err, "read app config")
		}
		if err := yaml.Unmarshal(yamlFile, &c); err != nil {
			return c, errors.Wrap(err, "unmarshal app config")
		}
	}
	c.fillDefaults()
	return c, nil
}

func (c *RegistryAppConfig) fillDefaults() {
	if c.PROBE_CONCURRENCY <= 0 {
		c.PROBE_CONCURRENCY = DefaultProbeConcurrency
	}
	if c.PROBE_TIMEOUT_SECOND <= 0 {
		c.PROBE_TIMEOUT_SECOND = DefaultProbeTimeoutSecond
	}
	if c.FETCH_TIMEOUT_SECOND <= 0 {
		c.FETCH_TIMEOUT_SECOND = DefaultFetchTimeoutSecond
	}
	if c.HUBCHECK_PATH == "" {
		c.HUBCHECK_PATH = DefaultHubCheckPath
	}
	if c.HUBCHECK_DOWNLOAD_URL == "" {
		c.HUBCHECK_DOWNLOAD_URL = DefaultHubCheckDownloadURL
	}
	if c.SEARCH_INDEX_NAME == "" {
		c.SEARCH_INDEX_NAME = DefaultSearchIndexName
	}
	if c.SEARCH_TIMEOUT_SECOND <= 0 {
		c.SEARCH_TIMEOUT_SECOND = DefaultSearchTimeoutSecond
	}
	if c.SEARCH_MAX_RETRY <= 0 {
		c.SEARCH_MAX_RETRY = DefaultSearchMaxRetry
	}
	if c.HUB_LOCK_TTL_SECOND <= 0 {
		c.HUB_LOCK_TTL_SECOND = DefaultHubLockTTLSecond
	}
	if c.ENRICHMENT_SCHEDULE == "" {
		c.ENRICHMENT_SCHEDULE = DefaultEnrichmentSchedule
	}
	if c.ASSEMBLY_DUMP_SOURCE_URL == "" {
		c.ASSEMBLY_DUMP_SOURCE_URL = DefaultAssemblyDumpSourceURL
	}
	if c.DUMP_STORE_KIND == "" {
		c.DUMP_STORE_KIND = DefaultDumpStoreKind
	}
	if c.DUMP_STORE_DIR == "" {
		c.DUMP_STORE_DIR = DefaultDumpStoreDir
	}
}

func (c RegistryAppConfig) ProbeTimeout() time.Duration {
	return time.Duration(c.PROBE_TIMEOUT_SECOND) * time.Second
}

func (c RegistryAppConfig) FetchTimeout() time.Duration {
	return time.Duration(c.FETCH_TIMEOUT_SECOND) * time.Second
}

func (c RegistryAppConfig) SearchTimeout() time.Duration {
	return time.Duration(c.SEARCH_TIMEOUT_SECOND) * time.Second
}

func (c RegistryAppConfig) HubLockTTL() time.Duration {
	return time.Duration(c.HUB_LOCK_TTL_SECOND) * time.Second
}
