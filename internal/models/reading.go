package models

import (
	"fmt"
	"math"
	"time"
)

// Temperature is a temperature in tenths of a degree Celsius (365 == 36.5°C).
type Temperature int16

// TemperatureFromFloat converts degrees Celsius to tenths, rounding to the nearest tenth.
func TemperatureFromFloat(celsius float64) Temperature {
	return Temperature(math.Round(celsius * 10))
}

// Celsius returns the temperature in degrees Celsius
func (t Temperature) Celsius() float64 {
	return float64(t) / 10
}

// String formats the temperature with one decimal digit, e.g. "-0.5" or "36.2"
func (t Temperature) String() string {
	return formatTenths(int(t))
}

// Humidity is relative humidity in tenths of a percent (451 == 45.1%).
type Humidity uint16

// HumidityFromFloat converts a percentage to tenths. Negative values clamp to 0.
func HumidityFromFloat(percent float64) Humidity {
	if percent <= 0 {
		return 0
	}
	return Humidity(math.Round(percent * 10))
}

// Percent returns the humidity as a percentage
func (h Humidity) Percent() float64 {
	return float64(h) / 10
}

func (h Humidity) String() string {
	return formatTenths(int(h))
}

func formatTenths(v int) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%d", sign, v/10, v%10)
}

// Reading represents a single decoded reading from the DHT sensor.
type Reading struct {
	SensorID    string
	Timestamp   time.Time
	Humidity    Humidity
	Temperature Temperature
}

// IsValid checks if the reading values are within acceptable ranges
// DHT11 envelope: temp -20 to 60°C, humidity 0-100%
func (r *Reading) IsValid() bool {
	const (
		minTemp     Temperature = -200
		maxTemp     Temperature = 600
		maxHumidity Humidity    = 1000
	)

	if r.SensorID == "" {
		return false
	}
	if r.Timestamp.IsZero() {
		return false
	}
	if r.Temperature < minTemp || r.Temperature > maxTemp {
		return false
	}
	if r.Humidity > maxHumidity {
		return false
	}

	return true
}

// String returns the reading in log-friendly form
func (r *Reading) String() string {
	return fmt.Sprintf("SensorID: %s, Timestamp: %s, Humidity: %s%%, Temperature: %s°C",
		r.SensorID,
		r.Timestamp.Format(time.RFC3339),
		r.Humidity,
		r.Temperature)
}

// NewReading creates a new Reading with the current timestamp
func NewReading(sensorID string, temperature Temperature, humidity Humidity) *Reading {
	return &Reading{
		SensorID:    sensorID,
		Timestamp:   time.Now(),
		Humidity:    humidity,
		Temperature: temperature,
	}
}
