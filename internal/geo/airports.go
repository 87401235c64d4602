package geo

// Airport holds directory data for a single IATA code.
type Airport struct {
	Lat     float64
	Lon     float64
	Country string
}

// airports is the embedded airport directory. Coverage is the routes the
// supported regimes can apply to plus common long-haul counterparts; unknown
// codes fall back to the documented 1000 km substitute in the calculators.
var airports = map[string]Airport{
	// European Union
	"FRA": {50.0379, 8.5622, "DE"},
	"MUC": {48.3538, 11.7861, "DE"},
	"BER": {52.3667, 13.5033, "DE"},
	"CDG": {49.0097, 2.5479, "FR"},
	"ORY": {48.7262, 2.3652, "FR"},
	"NCE": {43.6584, 7.2159, "FR"},
	"AMS": {52.3105, 4.7683, "NL"},
	"MAD": {40.4983, -3.5676, "ES"},
	"BCN": {41.2974, 2.0833, "ES"},
	"FCO": {41.8003, 12.2389, "IT"},
	"MXP": {45.6306, 8.7281, "IT"},
	"VIE": {48.1103, 16.5697, "AT"},
	"BRU": {50.9014, 4.4844, "BE"},
	"LIS": {38.7756, -9.1354, "PT"},
	"ATH": {37.9364, 23.9445, "GR"},
	"DUB": {53.4264, -6.2499, "IE"},
	"CPH": {55.6181, 12.6561, "DK"},
	"ARN": {59.6498, 17.9238, "SE"},
	"HEL": {60.3172, 24.9633, "FI"},
	"WAW": {52.1672, 20.9679, "PL"},
	"PRG": {50.1008, 14.2600, "CZ"},
	"BUD": {47.4298, 19.2611, "HU"},
	"OTP": {44.5711, 26.0858, "RO"},

	// United Kingdom
	"LHR": {51.4700, -0.4543, "GB"},
	"LGW": {51.1537, -0.1821, "GB"},
	"STN": {51.8860, 0.2389, "GB"},
	"LTN": {51.8747, -0.3683, "GB"},
	"MAN": {53.3537, -2.2750, "GB"},
	"EDI": {55.9500, -3.3725, "GB"},
	"BHX": {52.4539, -1.7480, "GB"},
	"GLA": {55.8642, -4.4331, "GB"},

	// Switzerland
	"ZRH": {47.4647, 8.5492, "CH"},
	"GVA": {46.2381, 6.1089, "CH"},
	"BSL": {47.5900, 7.5291, "CH"},
	"BRN": {46.9141, 7.4971, "CH"},
	"LUG": {46.0043, 8.9106, "CH"},

	// Norway
	"OSL": {60.1939, 11.1004, "NO"},
	"BGO": {60.2934, 5.2181, "NO"},
	"TRD": {63.4578, 10.9240, "NO"},
	"SVG": {58.8767, 5.6378, "NO"},
	"TOS": {69.6833, 18.9189, "NO"},

	// Canada
	"YYZ": {43.6777, -79.6248, "CA"},
	"YVR": {49.1967, -123.1815, "CA"},
	"YUL": {45.4706, -73.7408, "CA"},
	"YYC": {51.1215, -114.0076, "CA"},
	"YOW": {45.3225, -75.6692, "CA"},
	"YEG": {53.3097, -113.5801, "CA"},
	"YHZ": {44.8808, -63.5086, "CA"},
	"YWG": {49.9100, -97.2399, "CA"},

	// United States
	"JFK": {40.6413, -73.7781, "US"},
	"EWR": {40.6895, -74.1745, "US"},
	"LAX": {33.9416, -118.4085, "US"},
	"ORD": {41.9742, -87.9073, "US"},
	"ATL": {33.6407, -84.4277, "US"},
	"DFW": {32.8998, -97.0403, "US"},
	"SFO": {37.6213, -122.3790, "US"},
	"MIA": {25.7959, -80.2870, "US"},
	"SEA": {47.4502, -122.3088, "US"},
	"BOS": {42.3656, -71.0096, "US"},
	"IAD": {38.9531, -77.4565, "US"},
	"DEN": {39.8561, -104.6737, "US"},
	"LAS": {36.0840, -115.1537, "US"},
	"PHX": {33.4343, -112.0116, "US"},
	"IAH": {29.9902, -95.3368, "US"},
	"MCO": {28.4312, -81.3081, "US"},
	"CLT": {35.2144, -80.9473, "US"},
	"MSP": {44.8848, -93.2223, "US"},
	"DTW": {42.2162, -83.3554, "US"},
	"PHL": {39.8729, -75.2437, "US"},

	// Common long-haul counterparts outside the supported regimes
	"IST": {41.2753, 28.7519, "TR"},
	"DXB": {25.2532, 55.3657, "AE"},
	"DOH": {25.2730, 51.6081, "QA"},
	"NRT": {35.7720, 140.3929, "JP"},
	"HND": {35.5494, 139.7798, "JP"},
	"ICN": {37.4602, 126.4407, "KR"},
	"PEK": {40.0799, 116.6031, "CN"},
	"HKG": {22.3080, 113.9185, "HK"},
	"SIN": {1.3644, 103.9915, "SG"},
	"BKK": {13.6900, 100.7501, "TH"},
	"DEL": {28.5562, 77.1000, "IN"},
	"SYD": {-33.9399, 151.1753, "AU"},
	"AKL": {-37.0082, 174.7920, "NZ"},
	"GRU": {-23.4356, -46.4731, "BR"},
	"EZE": {-34.8222, -58.5358, "AR"},
	"MEX": {19.4363, -99.0721, "MX"},
	"JNB": {-26.1392, 28.2460, "ZA"},
	"CAI": {30.1219, 31.4056, "EG"},
}

// Lookup returns directory data for an IATA code.
func Lookup(iata string) (Airport, bool) {
	a, ok := airports[normalizeCode(iata)]
	return a, ok
}
