package geodb

import "github.com/jgoikoetxea/mileatlas/internal/core/domain"

// City is a named marker used for nearest-city resolution.
type City struct {
	Name string
	Lat  float64
	Lon  float64
}

// CountryRegion is one compiled-in country: a bounding box approximating
// its extent plus its major cities. The table is immutable for the
// process lifetime and not configurable at runtime.
type CountryRegion struct {
	Name   string
	Code   string
	Bounds domain.Bounds
	Cities []City
}

// countries is the full offline geocoding table. Bounding boxes are
// deliberately coarse; overlaps are resolved by smallest box area.
var countries = []CountryRegion{
	{
		Name:   "Germany",
		Code:   "DE",
		Bounds: domain.Bounds{MinLat: 47.27, MaxLat: 55.06, MinLon: 5.87, MaxLon: 15.04},
		Cities: []City{
			{"Berlin", 52.520, 13.405},
			{"Hamburg", 53.551, 9.994},
			{"Munich", 48.137, 11.575},
			{"Cologne", 50.937, 6.960},
			{"Frankfurt", 50.110, 8.682},
			{"Stuttgart", 48.775, 9.183},
			{"Leipzig", 51.340, 12.375},
			{"Dresden", 51.050, 13.738},
		},
	},
	{
		Name:   "United States",
		Code:   "US",
		Bounds: domain.Bounds{MinLat: 24.52, MaxLat: 49.38, MinLon: -124.77, MaxLon: -66.93},
		Cities: []City{
			{"New York", 40.713, -74.006},
			{"Los Angeles", 34.052, -118.244},
			{"Chicago", 41.878, -87.630},
			{"Houston", 29.760, -95.370},
			{"Phoenix", 33.448, -112.074},
			{"Seattle", 47.606, -122.332},
			{"Miami", 25.762, -80.192},
			{"Denver", 39.739, -104.990},
			{"Boston", 42.360, -71.058},
			{"San Francisco", 37.775, -122.419},
		},
	},
	{
		Name:   "United Kingdom",
		Code:   "GB",
		Bounds: domain.Bounds{MinLat: 49.96, MaxLat: 58.64, MinLon: -7.57, MaxLon: 1.68},
		Cities: []City{
			{"London", 51.507, -0.128},
			{"Birmingham", 52.486, -1.890},
			{"Manchester", 53.481, -2.242},
			{"Glasgow", 55.864, -4.252},
			{"Edinburgh", 55.953, -3.188},
			{"Liverpool", 53.408, -2.992},
			{"Leeds", 53.800, -1.549},
			{"Cardiff", 51.481, -3.179},
		},
	},
	{
		Name:   "France",
		Code:   "FR",
		Bounds: domain.Bounds{MinLat: 41.33, MaxLat: 51.09, MinLon: -5.14, MaxLon: 9.56},
		Cities: []City{
			{"Paris", 48.857, 2.352},
			{"Marseille", 43.297, 5.370},
			{"Lyon", 45.764, 4.836},
			{"Toulouse", 43.605, 1.444},
			{"Nice", 43.710, 7.262},
			{"Nantes", 47.218, -1.554},
			{"Bordeaux", 44.838, -0.579},
			{"Lille", 50.629, 3.057},
		},
	},
	{
		Name:   "Spain",
		Code:   "ES",
		Bounds: domain.Bounds{MinLat: 36.00, MaxLat: 43.79, MinLon: -9.30, MaxLon: 3.32},
		Cities: []City{
			{"Madrid", 40.417, -3.704},
			{"Barcelona", 41.385, 2.173},
			{"Valencia", 39.470, -0.377},
			{"Seville", 37.389, -5.984},
			{"Bilbao", 43.263, -2.935},
			{"Zaragoza", 41.649, -0.888},
			{"Malaga", 36.721, -4.421},
		},
	},
	{
		Name:   "Italy",
		Code:   "IT",
		Bounds: domain.Bounds{MinLat: 36.62, MaxLat: 47.09, MinLon: 6.75, MaxLon: 18.48},
		Cities: []City{
			{"Rome", 41.903, 12.496},
			{"Milan", 45.464, 9.190},
			{"Naples", 40.852, 14.268},
			{"Turin", 45.070, 7.687},
			{"Florence", 43.770, 11.256},
			{"Venice", 45.441, 12.316},
			{"Bologna", 44.494, 11.343},
		},
	},
	{
		Name:   "Netherlands",
		Code:   "NL",
		Bounds: domain.Bounds{MinLat: 50.75, MaxLat: 53.55, MinLon: 3.36, MaxLon: 7.23},
		Cities: []City{
			{"Amsterdam", 52.370, 4.895},
			{"Rotterdam", 51.924, 4.478},
			{"The Hague", 52.070, 4.300},
			{"Utrecht", 52.091, 5.122},
			{"Eindhoven", 51.441, 5.470},
		},
	},
	{
		Name:   "Belgium",
		Code:   "BE",
		Bounds: domain.Bounds{MinLat: 49.50, MaxLat: 51.51, MinLon: 2.54, MaxLon: 6.41},
		Cities: []City{
			{"Brussels", 50.850, 4.352},
			{"Antwerp", 51.220, 4.402},
			{"Ghent", 51.054, 3.717},
			{"Liege", 50.633, 5.567},
		},
	},
	{
		Name:   "Switzerland",
		Code:   "CH",
		Bounds: domain.Bounds{MinLat: 45.82, MaxLat: 47.81, MinLon: 5.96, MaxLon: 10.49},
		Cities: []City{
			{"Zurich", 47.377, 8.540},
			{"Geneva", 46.205, 6.143},
			{"Basel", 47.559, 7.589},
			{"Bern", 46.948, 7.447},
			{"Lausanne", 46.520, 6.632},
		},
	},
	{
		Name:   "Austria",
		Code:   "AT",
		Bounds: domain.Bounds{MinLat: 46.37, MaxLat: 49.02, MinLon: 9.53, MaxLon: 17.16},
		Cities: []City{
			{"Vienna", 48.208, 16.373},
			{"Graz", 47.071, 15.438},
			{"Salzburg", 47.810, 13.055},
			{"Innsbruck", 47.269, 11.404},
		},
	},
	{
		Name:   "Portugal",
		Code:   "PT",
		Bounds: domain.Bounds{MinLat: 36.96, MaxLat: 42.15, MinLon: -9.50, MaxLon: -6.19},
		Cities: []City{
			{"Lisbon", 38.722, -9.139},
			{"Porto", 41.158, -8.629},
			{"Braga", 41.545, -8.427},
			{"Faro", 37.019, -7.930},
		},
	},
	{
		Name:   "Poland",
		Code:   "PL",
		Bounds: domain.Bounds{MinLat: 49.00, MaxLat: 54.84, MinLon: 14.12, MaxLon: 24.15},
		Cities: []City{
			{"Warsaw", 52.230, 21.012},
			{"Krakow", 50.065, 19.945},
			{"Gdansk", 54.352, 18.646},
			{"Wroclaw", 51.108, 17.038},
			{"Poznan", 52.407, 16.930},
		},
	},
	{
		Name:   "Czechia",
		Code:   "CZ",
		Bounds: domain.Bounds{MinLat: 48.55, MaxLat: 51.06, MinLon: 12.09, MaxLon: 18.86},
		Cities: []City{
			{"Prague", 50.076, 14.438},
			{"Brno", 49.195, 16.607},
			{"Ostrava", 49.821, 18.262},
		},
	},
	{
		Name:   "Denmark",
		Code:   "DK",
		Bounds: domain.Bounds{MinLat: 54.56, MaxLat: 57.75, MinLon: 8.07, MaxLon: 12.69},
		Cities: []City{
			{"Copenhagen", 55.676, 12.568},
			{"Aarhus", 56.163, 10.204},
			{"Odense", 55.404, 10.403},
		},
	},
	{
		Name:   "Sweden",
		Code:   "SE",
		Bounds: domain.Bounds{MinLat: 55.34, MaxLat: 69.06, MinLon: 11.11, MaxLon: 24.16},
		Cities: []City{
			{"Stockholm", 59.329, 18.069},
			{"Gothenburg", 57.709, 11.975},
			{"Malmo", 55.605, 13.003},
			{"Uppsala", 59.859, 17.639},
		},
	},
	{
		Name:   "Norway",
		Code:   "NO",
		Bounds: domain.Bounds{MinLat: 57.98, MaxLat: 71.19, MinLon: 4.65, MaxLon: 31.08},
		Cities: []City{
			{"Oslo", 59.913, 10.752},
			{"Bergen", 60.393, 5.324},
			{"Trondheim", 63.430, 10.395},
		},
	},
	{
		Name:   "Finland",
		Code:   "FI",
		Bounds: domain.Bounds{MinLat: 59.81, MaxLat: 70.09, MinLon: 20.55, MaxLon: 31.59},
		Cities: []City{
			{"Helsinki", 60.170, 24.938},
			{"Tampere", 61.498, 23.761},
			{"Turku", 60.452, 22.267},
		},
	},
	{
		Name:   "Ireland",
		Code:   "IE",
		Bounds: domain.Bounds{MinLat: 51.42, MaxLat: 55.39, MinLon: -10.48, MaxLon: -5.99},
		Cities: []City{
			{"Dublin", 53.349, -6.260},
			{"Cork", 51.898, -8.476},
			{"Galway", 53.270, -9.049},
		},
	},
	{
		Name:   "Canada",
		Code:   "CA",
		Bounds: domain.Bounds{MinLat: 41.68, MaxLat: 83.11, MinLon: -141.00, MaxLon: -52.62},
		Cities: []City{
			{"Toronto", 43.653, -79.383},
			{"Montreal", 45.502, -73.567},
			{"Vancouver", 49.283, -123.121},
			{"Calgary", 51.045, -114.057},
			{"Ottawa", 45.421, -75.697},
		},
	},
	{
		Name:   "Japan",
		Code:   "JP",
		Bounds: domain.Bounds{MinLat: 24.40, MaxLat: 45.52, MinLon: 122.93, MaxLon: 145.82},
		Cities: []City{
			{"Tokyo", 35.677, 139.650},
			{"Osaka", 34.694, 135.502},
			{"Kyoto", 35.012, 135.768},
			{"Sapporo", 43.062, 141.354},
			{"Fukuoka", 33.590, 130.402},
		},
	},
	{
		Name:   "Australia",
		Code:   "AU",
		Bounds: domain.Bounds{MinLat: -43.64, MaxLat: -10.67, MinLon: 113.34, MaxLon: 153.57},
		Cities: []City{
			{"Sydney", -33.869, 151.209},
			{"Melbourne", -37.814, 144.963},
			{"Brisbane", -27.470, 153.025},
			{"Perth", -31.953, 115.857},
			{"Adelaide", -34.929, 138.601},
		},
	},
}

// Countries returns the compiled-in table. Callers must not mutate it.
func Countries() []CountryRegion {
	return countries
}
