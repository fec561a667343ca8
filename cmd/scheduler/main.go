package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/Luismorlan/trackhubs/app_config"
	"github.com/Luismorlan/trackhubs/registry"
	"github.com/Luismorlan/trackhubs/scheduler"
	"github.com/Luismorlan/trackhubs/scheduler/modules"
	"github.com/Luismorlan/trackhubs/utils/dotenv"
	. "github.com/Luismorlan/trackhubs/utils/log"
)

const serviceName = "thr_scheduler"

var (
	appConfigPath = flag.String("app_config_path", "", "path to the registry app config, defaults apply when empty")
	statsdAddr    = flag.String("statsd_addr", "127.0.0.1:8125", "dogstatsd agent address")
	runOnStart    = flag.Bool("run_on_start", false, "enrich every trackdb once at startup")
)

func NewDogStatsdClient() *statsd.Client {
	client, err := statsd.New(*statsdAddr)
	if err != nil {
		panic(err)
	}
	return client
}

func main() {
	flag.Parse()
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	InitLogger(serviceName)

	config, err := app_config.ParseRegistryAppConfig(*appConfigPath)
	if err != nil {
		Log.Fatal(err)
	}
	reg, err := registry.New(config)
	if err != nil {
		Log.Fatal(err)
	}

	eventbus := scheduler.NewEventBus()
	ms := []scheduler.Module{
		// Publishes an enrichment request for all trackdbs on schedule.
		modules.NewCronScheduler(modules.CronSchedulerConfig{
			Name:       "cron_scheduler",
			Schedule:   config.ENRICHMENT_SCHEDULE,
			RunOnStart: *runOnStart,
		}, eventbus),
		// Runs the requests and publishes a report for each.
		modules.NewEnrichmentWorker(modules.EnrichmentWorkerConfig{Name: "enrichment_worker"}, reg.Enricher, eventbus),
		// Reports the execution metrics to datadog for monitoring purpose.
		modules.NewReporter(modules.ReporterConfig{Name: "reporter"}, NewDogStatsdClient(), eventbus),
	}
	engine := scheduler.NewEngine(ms, context.Background(), eventbus)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		engine.Shutdown()
	}()

	// blocking call.
	engine.Run()
	Log.Infoln("engine stopped execution")
}
