package logfatal

import (
	"log"
	xos "os"
)

func load(path string) {
	if path == "" {
		log.Fatalf("empty path") // want `log.Fatalf\(\) should only be called from main function in main package`
	}
	if path == "-" {
		xos.Exit(1) // want `os.Exit\(\) should only be called from main function in main package`
	}
	log.Println("loading", path)
}
