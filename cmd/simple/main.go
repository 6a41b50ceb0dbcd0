// FILE: cmd/simple/main.go
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lixenwraith/sink"
)

const configFile = "simple_config.toml"

// Example TOML content
var tomlContent = `
# Example simple_config.toml
[sink]
  enabled = true
  file_path = "./simple_logs/app.log"
  rotate = true
  max_log_size = 4096
  max_log_files = 3
  on_max_log_files_reached = "deleteOld"
  queue_size = 1024
  retry_count = 3
  retry_delay_ms = 50
  breaker_threshold = 5
  breaker_cooldown_ms = 5000
  internal_errors_to_stderr = true
`

func main() {
	fmt.Println("--- Simple Sink Example ---")

	// Create dummy config file
	if err := os.WriteFile(configFile, []byte(tomlContent), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
	} else {
		fmt.Printf("Created dummy config file: %s\n", configFile)
	}

	cfg, err := sink.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	writer, err := sink.NewWriter(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create writer: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Writer created.")

	// Fire-and-forget writes
	writer.Write(time.Now().Format(time.RFC3339Nano) + " INFO Application starting...")
	writer.Write(sink.Record(
		sink.Field{Key: "event", Val: "warmup"},
		sink.Field{Key: "user_id", Val: 123},
		sink.Field{Key: "threshold", Val: 0.95},
	).Render())

	// Awaited write
	if err := <-writer.Write("ERROR An error occurred! code=500"); err != nil {
		fmt.Fprintf(os.Stderr, "Write failed: %v\n", err)
	}

	m := writer.Metrics()
	fmt.Printf("Messages logged: %d, bytes written: %d, rotations: %d\n",
		m.MessagesLogged, m.BytesWritten, m.Rotations)

	// Drain and close every live writer
	fmt.Println("Shutting down...")
	if err := sink.CloseAll(); err != nil {
		fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
	} else {
		fmt.Println("Shutdown complete.")
	}

	fmt.Println("--- Example Finished ---")
	fmt.Printf("Check log files in './simple_logs' and the config '%s'.\n", configFile)
}
