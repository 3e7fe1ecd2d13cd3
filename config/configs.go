package config

import (
	"encoding/xml"
	"fmt"
	"os"
)

var MainRouter string
var HgtDir string
var DataDir string
var OutputDir string
var StaticDir string
var BoundaryFile string
var Sigma float64
var NodataFallback float64
var MainConfig Config

// Sigma与NodataFallback用指针区分"没写"和"显式写0"：sigma=0表示关闭平滑，不能被缺省值顶掉
type Config struct {
	XMLName        xml.Name `xml:"config"`
	MainRouter     string   `xml:"MainRouter"`
	HgtDir         string   `xml:"hgt"`
	DataDir        string   `xml:"data"`
	OutputDir      string   `xml:"outputs"`
	StaticDir      string   `xml:"web"`
	BoundaryFile   string   `xml:"boundary"`
	MaxAreaKm2     float64  `xml:"maxareakm2"`
	MaxDim         int      `xml:"maxdim"`
	Sigma          *float64 `xml:"sigma"`
	VScale         float64  `xml:"vscale"`
	NodataFallback *float64 `xml:"nodatafallback"`
	WithColor      bool     `xml:"withcolor"`
}

func init() {

	xmlFile, err := os.Open("config.xml")
	if err != nil {
		fmt.Println("Error  opening  file:", err)
		setDefaults()
		return
	}
	defer xmlFile.Close()

	xmlDecoder := xml.NewDecoder(xmlFile)
	err = xmlDecoder.Decode(&MainConfig)
	if err != nil {
		fmt.Println("Error  decoding  XML:", err)
	}
	setDefaults()
}

// setDefaults 填充缺省配置项并同步包级变量
func setDefaults() {
	if MainConfig.MainRouter == "" {
		MainConfig.MainRouter = "127.0.0.1:5000"
	}
	if MainConfig.HgtDir == "" {
		MainConfig.HgtDir = "hgt_files"
	}
	if MainConfig.DataDir == "" {
		MainConfig.DataDir = "data"
	}
	if MainConfig.OutputDir == "" {
		MainConfig.OutputDir = "outputs"
	}
	if MainConfig.StaticDir == "" {
		MainConfig.StaticDir = "web"
	}
	if MainConfig.BoundaryFile == "" {
		MainConfig.BoundaryFile = "geoBoundaries-ECU-ADM2_simplified.geojson"
	}
	if MainConfig.MaxAreaKm2 == 0 {
		MainConfig.MaxAreaKm2 = 2000
	}
	if MainConfig.MaxDim == 0 {
		MainConfig.MaxDim = 1200
	}
	if MainConfig.Sigma == nil {
		sigma := 1.5
		MainConfig.Sigma = &sigma
	}
	if MainConfig.VScale == 0 {
		MainConfig.VScale = 1.5
	}
	if MainConfig.NodataFallback == nil {
		nodata := -32768.0
		MainConfig.NodataFallback = &nodata
	}

	MainRouter = MainConfig.MainRouter
	HgtDir = MainConfig.HgtDir
	DataDir = MainConfig.DataDir
	OutputDir = MainConfig.OutputDir
	StaticDir = MainConfig.StaticDir
	BoundaryFile = MainConfig.BoundaryFile
	Sigma = *MainConfig.Sigma
	NodataFallback = *MainConfig.NodataFallback
}
