package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/mtlgeo/osm2poi"
)

var (
	osmFileName      = flag.String("file", "", "Filename of *.osm.pbf or *.osm file to process")
	bbox             = flag.String("bbox", "", "Bounding box 'south,west,north,east' to download via Overpass instead of reading a file")
	overpassEndpoint = flag.String("overpass", osm2poi.DefaultOverpassEndpoint, "Overpass API endpoint used with -bbox")
	out              = flag.String("out", "extract", "Output file prefix. E.g.: prefix 'map' produces 'map_pois.geojson', 'map_residential_entrances.geojson' and 'map_zones.geojson'")
	customWeights    = flag.String("custom-weights", "", "Optional keyed-JSON file with absolute POI weight overrides")
	customFactors    = flag.String("custom-weight-factors", "", "Optional keyed-JSON file with multiplicative POI weight factors")
	customPois       = flag.String("custom-pois", "", "Optional GeoJSON file with POIs appended to the weighted output")
	verbose          = flag.Bool("verbose", true, "Print progress")
)

func main() {
	flag.Parse()

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	var (
		raw *osm2poi.RawData
		geo *osm2poi.GeojsonData
		err error
	)
	switch {
	case *osmFileName != "":
		raw, geo, err = osm2poi.LoadOSMFile(*osmFileName, *verbose)
	case *bbox != "":
		downloader := osm2poi.NewOverpassDownloader(*overpassEndpoint, 0)
		var elements []*osm2poi.RawElement
		elements, err = downloader.DownloadArea(*bbox, *verbose)
		if err == nil {
			raw, geo, err = osm2poi.BuildFromElements(elements, *verbose)
		}
	default:
		fmt.Println("Either -file or -bbox must be provided")
		return
	}
	if err != nil {
		fmt.Println(err)
		return
	}

	st := time.Now()

	poiExtractor := osm2poi.NewNonResidentialExtractor(raw, geo, logger, *verbose)
	pois, err := poiExtractor.Run()
	if err != nil {
		fmt.Println(err)
		return
	}

	residentialExtractor := osm2poi.NewResidentialExtractor(raw, geo, logger, *verbose)
	residential, err := residentialExtractor.Run()
	if err != nil {
		fmt.Println(err)
		return
	}

	overrides, err := osm2poi.LoadWeightOverrides(*customWeights, *customFactors, *customPois)
	if err != nil {
		fmt.Println(err)
		return
	}
	weighter := osm2poi.NewPoiWeighter(geo, logger, *verbose)
	weighted := weighter.Run(pois, overrides)
	if *verbose && len(weighter.MissingWeights()) > 0 {
		fmt.Printf("[WARNING]: %d POIs have no weight and were excluded from the weighted output\n", len(weighter.MissingWeights()))
	}

	prefix := strings.TrimSuffix(*out, ".geojson")
	if err := osm2poi.WriteFeatureCollection(prefix+"_pois.geojson", weighted); err != nil {
		fmt.Println(err)
		return
	}
	if err := osm2poi.WriteFeatureCollection(prefix+"_residential_entrances.geojson", residential.Entrances); err != nil {
		fmt.Println(err)
		return
	}
	if err := osm2poi.WriteFeatureCollection(prefix+"_zones.geojson", residential.Zones); err != nil {
		fmt.Println(err)
		return
	}

	if *verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
	}
	if poiExtractor.HasDataErrors() || residentialExtractor.HasDataErrors() {
		fmt.Println("[WARNING]: Data quality errors were found during extraction, see the log output")
	}
}
