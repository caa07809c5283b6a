package core

// countyCodes maps county/city names to the single-letter jurisdiction codes
// used by the declaration media formats. The table is immutable.
var countyCodes = map[string]string{
	"臺北市": "A",
	"台北市": "A",
	"臺中市": "B",
	"台中市": "B",
	"基隆市": "C",
	"臺南市": "D",
	"台南市": "D",
	"高雄市": "E",
	"新北市": "F",
	"宜蘭縣": "G",
	"桃園市": "H",
	"嘉義市": "I",
	"新竹縣": "J",
	"苗栗縣": "K",
	"南投縣": "M",
	"彰化縣": "N",
	"新竹市": "O",
	"雲林縣": "P",
	"嘉義縣": "Q",
	"屏東縣": "T",
	"花蓮縣": "U",
	"臺東縣": "V",
	"台東縣": "V",
	"金門縣": "W",
	"澎湖縣": "X",
	"連江縣": "Z",
}

// CountyCode returns the jurisdiction code for a county/city name, or false
// when the name is unknown.
func CountyCode(name string) (string, bool) {
	code, ok := countyCodes[name]
	return code, ok
}
