package models

// The types below decode the subset of OpenWeatherMap payloads the CLI
// renders. Unknown fields are ignored.

type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type MainReading struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  int     `json:"humidity"`
	Pressure  int     `json:"pressure"`
}

type CurrentWeather struct {
	Name  string      `json:"name"`
	Coord Coord       `json:"coord"`
	Main  MainReading `json:"main"`
	Wind  struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []Condition `json:"weather"`
	Sys     struct {
		Country string `json:"country"`
	} `json:"sys"`
}

// Summary returns the first condition description, or "".
func (c CurrentWeather) Summary() string {
	if len(c.Weather) == 0 {
		return ""
	}
	return c.Weather[0].Description
}

type ForecastPoint struct {
	Dt      int64       `json:"dt"`
	DtTxt   string      `json:"dt_txt"`
	Main    MainReading `json:"main"`
	Weather []Condition `json:"weather"`
}

type Forecast struct {
	List []ForecastPoint `json:"list"`
}

type AirQuality struct {
	List []struct {
		Main struct {
			AQI int `json:"aqi"`
		} `json:"main"`
		Components map[string]float64 `json:"components"`
	} `json:"list"`
}

// AQI returns the first reported air quality index (1 good .. 5 very poor),
// or 0 when absent.
func (a AirQuality) AQI() int {
	if len(a.List) == 0 {
		return 0
	}
	return a.List[0].Main.AQI
}
