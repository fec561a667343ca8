package utils

import (
	"github.com/Luismorlan/trackhubs/utils/dotenv"
	Logger "github.com/Luismorlan/trackhubs/utils/log"
	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// StartTracer starts the Datadog tracer for service.
func StartTracer(service string) {
	tracer.Start(
		tracer.WithService(service),
		tracer.WithEnv(dotenv.CurrentEnv()),
	)

	Logger.Log.WithFields(
		logrus.Fields{"service": service, "env": dotenv.CurrentEnv()},
	).Info("tracer initialized")
}

// Stop tracer, OK to be closed multiple times
func CloseTracer() {
	tracer.Stop()
}
