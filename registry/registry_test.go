package registry

import (
	"os"
	"testing"

	"github.com/Luismorlan/trackhubs/app_config"
	"github.com/Luismorlan/trackhubs/reference/dump_store"
	"github.com/Luismorlan/trackhubs/search"
	"github.com/Luismorlan/trackhubs/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEsAddresses(t *testing.T) {
	os.Setenv(EnvEsAddresses, "")
	assert.Equal(t, []string{defaultEsAddress}, EsAddresses())

	os.Setenv(EnvEsAddresses, "http://es1:9200, http://es2:9200,")
	defer os.Unsetenv(EnvEsAddresses)
	assert.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, EsAddresses())
}

func TestNewWith(t *testing.T) {
	config := app_config.DefaultRegistryAppConfig()
	config.DUMP_STORE_DIR = t.TempDir()
	r := NewWith(config, utils.CreateTestDB(t), search.NewFakeIndexer())

	assert.NotNil(t, r.Translator(utils.NewLocalHubLocker()))

	os.Unsetenv("REDIS_HOST")
	_, ok := r.HubLocker().(*utils.LocalHubLocker)
	assert.True(t, ok)

	dumps, err := r.DumpStore()
	require.Nil(t, err)
	_, ok = dumps.(*dump_store.LocalDumpStore)
	assert.True(t, ok)

	importer, err := r.Importer()
	require.Nil(t, err)
	assert.NotNil(t, importer)

	r.Config.DUMP_STORE_KIND = "tape"
	_, err = r.DumpStore()
	assert.NotNil(t, err)
}
