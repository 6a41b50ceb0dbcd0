// FILE: cmd/stress/main.go
package main

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/sink"
)

const (
	totalBursts    = 100
	linesPerBurst  = 500
	maxMessageSize = 2000
	numWorkers     = 50
)

var levels = []string{"DEBUG", "INFO", "WARN", "ERROR"}

func generateRandomMessage(size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rand.Intn(len(chars))])
	}
	return sb.String()
}

func main() {
	fmt.Println("--- Sink Stress Test ---")

	writer, err := sink.NewBuilder().
		FilePath("./logs/stress.log").
		MaxLogSize(1024 * 1024). // Force frequent rotation (1MB)
		MaxLogFiles(5).
		Strategy(sink.StrategyArchiveOld).
		QueueSize(10_000).
		InternalErrorsToStderr(true).
		Build()
	if err != nil {
		panic(err)
	}

	var written, rejected atomic.Uint64

	start := time.Now()
	var wg sync.WaitGroup
	for worker := 0; worker < numWorkers; worker++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for burst := 0; burst < totalBursts/numWorkers; burst++ {
				for i := 0; i < linesPerBurst; i++ {
					level := levels[rand.Intn(len(levels))]
					msg := generateRandomMessage(rand.Intn(maxMessageSize) + 10)
					line := fmt.Sprintf("%s wkr=%d bst=%d seq=%d %s",
						level, id, burst, i, msg)

					if err := <-writer.Write(line); err != nil {
						if errors.Is(err, sink.ErrQueueFull) {
							rejected.Add(1)
							continue
						}
						fmt.Printf("write error: %v\n", err)
						continue
					}
					written.Add(1)
				}
			}
		}(worker)
	}
	wg.Wait()

	if err := writer.Flush(); err != nil {
		fmt.Printf("flush error: %v\n", err)
	}

	elapsed := time.Since(start)
	m := writer.Metrics()
	fmt.Printf("Done in %v\n", elapsed)
	fmt.Printf("written=%d rejected=%d\n", written.Load(), rejected.Load())
	fmt.Printf("messages=%d bytes=%d failures=%d rotations=%d avg_latency=%v\n",
		m.MessagesLogged, m.BytesWritten, m.WriteFailures, m.Rotations, m.AverageWriteLatency)

	if err := writer.Destroy(); err != nil {
		fmt.Printf("destroy error: %v\n", err)
	}
}
