package osm2poi

import (
	"encoding/json"
	"io/ioutil"
	"os"

	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

// LoadWeightOverrides reads the optional manual correction files. Each
// filename may be empty or point to a missing file, in which case that
// correction is skipped. Weight and factor files are keyed JSON objects
// mapping POI feature id to a number; the custom POI file is a GeoJSON
// FeatureCollection appended to the output verbatim.
func LoadWeightOverrides(weightsFile, factorsFile, customPoisFile string) (*WeightOverrides, error) {
	overrides := &WeightOverrides{
		Weights: map[string]float64{},
		Factors: map[string]float64{},
	}

	if err := loadKeyedNumbers(weightsFile, overrides.Weights); err != nil {
		return nil, err
	}
	if err := loadKeyedNumbers(factorsFile, overrides.Factors); err != nil {
		return nil, err
	}

	if customPoisFile != "" {
		data, err := ioutil.ReadFile(customPoisFile)
		if os.IsNotExist(err) {
			return overrides, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "Can not read custom POIs file '%s'", customPoisFile)
		}
		collection, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, errors.Wrapf(err, "Can not parse custom POIs file '%s'", customPoisFile)
		}
		overrides.CustomPois = collection.Features
	}
	return overrides, nil
}

func loadKeyedNumbers(filename string, into map[string]float64) error {
	if filename == "" {
		return nil
	}
	data, err := ioutil.ReadFile(filename)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "Can not read file '%s'", filename)
	}
	if err := json.Unmarshal(data, &into); err != nil {
		return errors.Wrapf(err, "Can not parse file '%s'", filename)
	}
	return nil
}
