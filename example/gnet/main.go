// FILE: example/gnet/main.go
package main

import (
	"github.com/lixenwraith/sink"
	"github.com/lixenwraith/sink/compat"
	"github.com/panjf2000/gnet/v2"
)

// Example gnet event handler
type echoServer struct {
	gnet.BuiltinEventEngine
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	c.Write(buf)
	return gnet.None
}

func main() {
	writer, err := sink.NewBuilder().
		FilePath("/var/log/gnet/server.log").
		MaxLogSize(10 * 1024 * 1024).
		MaxLogFiles(3).
		Build()
	if err != nil {
		panic(err)
	}
	defer writer.Destroy()

	gnetAdapter := compat.NewGnetAdapter(writer)

	// Configure gnet server with the logger
	err = gnet.Run(
		&echoServer{},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		panic(err)
	}
}
