package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/df07/go-blackhole-raytracer/pkg/texture"
	"github.com/df07/go-blackhole-raytracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	textureDir := flag.String("textures", "textures", "Directory holding accretion_disc.png and skybox*.png")
	procedural := flag.Bool("procedural", false, "Generate textures instead of loading them")
	seed := flag.Int64("seed", 1, "Starfield seed for procedural textures")
	staticDir := flag.String("static", "static", "Directory of static files to serve")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// Textures are loaded once and shared by every render
	var textures *texture.Set
	if *procedural {
		textures = texture.ProceduralSet(*seed)
	} else {
		var err error
		textures, err = texture.LoadSet(*textureDir)
		if err != nil {
			logger.Error("Error loading textures", "dir", *textureDir, "error", err)
			os.Exit(1)
		}
	}

	// Create and start web server
	webServer := server.NewServer(*port, textures, *staticDir, logger)

	logger.Info("Black Hole Raytracer Web Server", "port", *port)

	if err := webServer.Start(); err != nil {
		logger.Error("Error starting server", "error", err)
		os.Exit(1)
	}
}
