package utils

import (
	"github.com/Luismorlan/trackhubs/utils/dotenv"
	"github.com/pkg/errors"
	"gopkg.in/DataDog/dd-trace-go.v1/profiler"
)

// StartProfiler starts the Datadog profiler for service. It only runs in
// production.
func StartProfiler(service string) error {
	if !dotenv.IsProdEnv() {
		return nil
	}
	err := profiler.Start(
		profiler.WithService(service),
		profiler.WithEnv(dotenv.CurrentEnv()),
		profiler.WithProfileTypes(
			profiler.CPUProfile,
			profiler.HeapProfile,
		),
	)
	return errors.Wrap(err, "start profiler")
}

// Stop profiler, OK to be closed multiple times
func CloseProfiler() {
	profiler.Stop()
}
