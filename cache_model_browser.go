package main

import (
	"flag"
	"log"
	"os"

	"github.com/mogaika/cache_model_browser/config"
	"github.com/mogaika/cache_model_browser/vfs"
	"github.com/mogaika/cache_model_browser/web"

	_ "github.com/mogaika/cache_model_browser/pack/frame"
	_ "github.com/mogaika/cache_model_browser/pack/model"
)

func main() {
	var addr, dir, webPath, format, logs string
	flag.StringVar(&addr, "i", ":8000", "Address of server")
	flag.StringVar(&dir, "dir", "", "Path to folder with unpacked .model, .frame and .framemap files")
	flag.StringVar(&webPath, "webpath", "web", "Path to folder with web ui (data subfolder is served), empty disables it")
	flag.StringVar(&format, "format", "auto", "Model layout: auto, old or new")
	flag.StringVar(&logs, "logs", "", "Directory for verbose decode logs and last exported gltf")
	flag.Parse()

	if dir == "" {
		flag.PrintDefaults()
		return
	}

	if f, err := config.ParseModelFormat(format); err != nil {
		log.Fatal(err)
	} else {
		config.SetModelFormat(f)
	}

	if logs != "" {
		if err := os.MkdirAll(logs, 0777); err != nil {
			log.Fatal(err)
		}
		config.SetLogsDir(logs)
	}

	if err := web.StartServer(addr, vfs.NewDirectoryDriver(dir), webPath); err != nil {
		log.Fatal(err)
	}
}
