package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-raytracing-kernels/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes", "scenes", "Directory of JSON scene files")
	flag.Parse()

	webServer := server.NewServer(*port, *scenesDir)

	log.Printf("Raytracing Kernels Web Server")
	log.Printf("API available at http://localhost:%d/api/health", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
