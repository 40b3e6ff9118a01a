package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/golang/glog"

	"github.com/df07/go-progressive-pathtracer/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	flag.Parse()
	glog.CopyStandardLogTo("INFO")
	defer glog.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	webServer := server.NewServer(*port)
	handler := server.NewRequestMetrics(webServer.Handler())
	if err := handler.RegisterMetrics(); err != nil {
		glog.Fatalf("Error while registering request metrics: %v", err)
	}

	glog.Infof("Progressive path tracer web server: http://localhost:%d/api/render?scene=default", *port)
	if err := webServer.Start(ctx, handler); err != nil {
		glog.Errorf("Error while running server: %v", err)
		glog.Flush()
		os.Exit(1)
	}
}
