package main

import (
	"flag"
	"os"

	"github.com/Luismorlan/trackhubs/app_config"
	"github.com/Luismorlan/trackhubs/registry"
	"github.com/Luismorlan/trackhubs/server"
	. "github.com/Luismorlan/trackhubs/utils"
	"github.com/Luismorlan/trackhubs/utils/dotenv"
	. "github.com/Luismorlan/trackhubs/utils/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
)

const serviceName = "thr_api_server"

var (
	appConfigPath = flag.String("app_config_path", "", "path to the registry app config, defaults apply when empty")
	addr          = flag.String("addr", ":8080", "listen address")
)

func cleanup() {
	CloseProfiler()
	CloseTracer()
	Log.Info("api server shutdown")
}

func main() {
	flag.Parse()
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	InitLogger(serviceName)
	StartTracer(serviceName)
	if err := StartProfiler(serviceName); err != nil {
		Log.Warnf("profiler disabled: %v", err)
	}
	defer cleanup()

	config, err := app_config.ParseRegistryAppConfig(*appConfigPath)
	if err != nil {
		Log.Fatal(err)
	}
	reg, err := registry.New(config)
	if err != nil {
		Log.Fatal(err)
	}

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(gintrace.Middleware(serviceName))

	server.RegisterRoutes(router, &server.Dependencies{
		Store:     reg.Store,
		Submitter: reg.Translator(reg.HubLocker()),
		Indexer:   reg.Indexer,
		Version:   os.Getenv("THR_VERSION"),
		BaseURL:   os.Getenv("THR_BASE_URL"),
	})

	Log.Info("api server starts up")
	if err := router.Run(*addr); err != nil {
		Log.Error(err)
	}
}
