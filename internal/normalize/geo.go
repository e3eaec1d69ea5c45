package normalize

import "strings"

// coordinate pairs for dealer metros we have seen in feeds. Keys are
// lower-cased "city|state".
var knownLocations = map[string][2]float64{
	"atlanta|ga":       {33.7490, -84.3880},
	"marietta|ga":      {33.9526, -84.5499},
	"duluth|ga":        {34.0029, -84.1446},
	"decatur|ga":       {33.7748, -84.2963},
	"chamblee|ga":      {33.8921, -84.2988},
	"roswell|ga":       {34.0232, -84.3616},
	"jacksonville|fl":  {30.3322, -81.6557},
	"orlando|fl":       {28.5384, -81.3789},
	"tampa|fl":         {27.9506, -82.4572},
	"charlotte|nc":     {35.2271, -80.8431},
	"raleigh|nc":       {35.7796, -78.6382},
	"nashville|tn":     {36.1627, -86.7816},
	"chattanooga|tn":   {35.0456, -85.3097},
	"birmingham|al":    {33.5186, -86.8104},
	"columbia|sc":      {34.0007, -81.0348},
	"greenville|sc":    {34.8526, -82.3940},
	"dallas|tx":        {32.7767, -96.7970},
	"houston|tx":       {29.7604, -95.3698},
	"phoenix|az":       {33.4484, -112.0740},
	"las vegas|nv":     {36.1699, -115.1398},
	"los angeles|ca":   {34.0522, -118.2437},
	"chicago|il":       {41.8781, -87.6298},
	"columbus|oh":      {39.9612, -82.9988},
	"denver|co":        {39.7392, -104.9903},
	"kansas city|mo":   {39.0997, -94.5786},
	"salt lake city|ut": {40.7608, -111.8910},
}

// Geographic center of the contiguous US. Map rendering downstream assumes a
// coordinate is always present, so unknown locations degrade to this rather
// than failing.
const (
	defaultLatitude  = 39.8283
	defaultLongitude = -98.5795
)

// Geo resolves a dealer city/state into coordinates. It never fails: unknown
// locations return the continental default. The table is a placeholder for a
// real geocoder; any replacement must keep the always-returns contract.
func Geo(city, state string) (lat, lon float64) {
	key := strings.ToLower(strings.TrimSpace(city)) + "|" + strings.ToLower(strings.TrimSpace(state))
	if c, ok := knownLocations[key]; ok {
		return c[0], c[1]
	}
	return defaultLatitude, defaultLongitude
}
