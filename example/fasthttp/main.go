// FILE: example/fasthttp/main.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/sink"
	"github.com/lixenwraith/sink/compat"
	"github.com/valyala/fasthttp"
)

func main() {
	// Create and configure the file sink
	writer, err := sink.NewBuilder().
		FilePath("/var/log/fasthttp/server.log").
		MaxLogSize(10 * 1024 * 1024).
		MaxLogFiles(5).
		Strategy(sink.StrategyArchiveOld).
		Build()
	if err != nil {
		panic(err)
	}
	defer writer.Destroy()

	// Create fasthttp adapter with custom level detection
	fasthttpAdapter := compat.NewFastHTTPAdapter(
		writer,
		compat.WithDefaultLevel("INFO"),
		compat.WithLevelDetector(customLevelDetector),
	)

	// Configure fasthttp server
	server := &fasthttp.Server{
		Handler: requestHandler,
		Logger:  fasthttpAdapter,

		// Other server settings
		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	// Start server
	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		panic(err)
	}
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/plain")
	fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
}

func customLevelDetector(msg string) string {
	// Custom logic to detect log levels
	// Can inspect specific fasthttp message patterns

	if strings.Contains(msg, "connection cannot be served") {
		return "WARN"
	}
	if strings.Contains(msg, "error when serving connection") {
		return "ERROR"
	}

	// Use default detection
	return compat.DetectLogLevel(msg)
}
