package main

import (
	"flag"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mogaika/cache_model_browser/config"
	"github.com/mogaika/cache_model_browser/pack"
	"github.com/mogaika/cache_model_browser/pack/frame"
	"github.com/mogaika/cache_model_browser/pack/model"
	"github.com/mogaika/cache_model_browser/utils"
	"github.com/mogaika/cache_model_browser/utils/gltfutils"
)

func writeYaml(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func writeOut(path string, write func(w io.Writer) error) {
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		log.Fatalf("Failed to write %q: %v", path, err)
	}
	log.Printf("Saved %q", path)
}

// loadFrameMap accepts binary framemap or its yaml form
func loadFrameMap(path string) *frame.FrameMap {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		fm, err := frame.LoadFrameMapYAML(path)
		if err != nil {
			log.Fatal(err)
		}
		return fm
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	fm, err := frame.NewFrameMapFromData(pack.ResourceId(path), data)
	if err != nil {
		log.Fatal(err)
	}
	return fm
}

func dumpModel(in string, outObj, outGlb, outFbx, outYaml string) interface{} {
	var exlog *utils.Logger
	if config.GetLogsDir() != "" {
		exlog = &utils.Logger{Writer: os.Stderr}
	}

	m, err := model.ReadFile(in, exlog)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Model %d (%v): %d vertices, %d triangles, %d texture triangles, flags [%v]",
		m.Id, m.Format, m.VertexCount(), m.TriangleCount(), m.TextureTriangleCount(), m.Flags)

	name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	writeOut(outObj, m.ExportObj)
	writeOut(outGlb, func(w io.Writer) error {
		doc, err := m.ExportGLTFDefault()
		if err != nil {
			return err
		}
		return gltfutils.ExportBinary(w, doc)
	})
	writeOut(outFbx, m.ExportFbxDefault(name+".fbx").Write)
	writeOut(outYaml, func(w io.Writer) error { return writeYaml(w, m) })
	return m
}

func main() {
	var in, format, logs, framemap string
	var outObj, outGlb, outFbx, outYaml, outSpew string
	var dump bool
	flag.StringVar(&in, "in", "", "Path to .model, .frame or .framemap file")
	flag.StringVar(&format, "format", "auto", "Model layout: auto, old or new")
	flag.StringVar(&logs, "logs", "", "Print verbose decode log (value is also used as directory for debug copies)")
	flag.StringVar(&framemap, "framemap", "", "Framemap for .frame (binary or .yaml), default is <id>.framemap near frame")
	flag.StringVar(&outObj, "obj", "", "Export model to wavefront obj file")
	flag.StringVar(&outGlb, "glb", "", "Export model to binary gltf file")
	flag.StringVar(&outFbx, "fbx", "", "Export model to fbx file")
	flag.StringVar(&outYaml, "yaml", "", "Save decoded resource as yaml")
	flag.StringVar(&outSpew, "spew", "", "Save full dump of decoded resource to file")
	flag.BoolVar(&dump, "dump", false, "Print full dump of decoded resource")
	flag.Parse()

	if in == "" {
		log.Fatal("Provide path to resource file. Use --help if you stuck.")
	}
	if f, err := config.ParseModelFormat(format); err != nil {
		log.Fatal(err)
	} else {
		config.SetModelFormat(f)
	}
	config.SetLogsDir(logs)

	var inst interface{}
	switch strings.ToLower(filepath.Ext(in)) {
	case ".model":
		inst = dumpModel(in, outObj, outGlb, outFbx, outYaml)
	case ".frame":
		var maps frame.FrameMapSource
		if framemap != "" {
			fm := loadFrameMap(framemap)
			maps = frame.FrameMaps{fm.Id: fm}
		}
		f, err := frame.ReadFile(in, maps)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("Frame %d: framemap %d, %d transforms, showing %v", f.Id, f.FrameMapId, len(f.Transforms), f.Showing)
		writeOut(outYaml, func(w io.Writer) error { return writeYaml(w, f) })
		inst = f
	case ".framemap", ".yaml", ".yml":
		fm := loadFrameMap(in)
		log.Printf("Framemap %d: %d slots", fm.Id, fm.SlotCount())
		writeOut(outYaml, fm.SaveYAML)
		inst = fm
	default:
		log.Fatalf("Unknown resource type of %q", in)
	}

	if dump {
		utils.Dump(inst)
	} else if logs != "" {
		utils.LogDump(inst)
	}
	writeOut(outSpew, func(w io.Writer) error {
		utils.FDump(w, inst)
		return nil
	})
}
