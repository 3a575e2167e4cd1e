package sensor

import (
	"errors"
	"fmt"
	"math"

	"github.com/afroash/dht"

	"github.com/afroash/dht-alert/internal/models"
)

// ErrInvalidReading is returned when the sensor answered but the decoded
// values fall outside the DHT11 envelope.
var ErrInvalidReading = errors.New("invalid reading")

// DHTSensor defines the interface for reading from a DHT sensor
type DHTSensor interface {
	// Read performs a single bus transaction with the sensor.
	// Returns temperature and humidity in tenths, or a *ReadError.
	Read() (models.Temperature, models.Humidity, error)

	// Close cleans up GPIO resources
	Close() error
}

// ReadError describes a failed sensor transaction.
type ReadError struct {
	Pin      int
	Attempts int
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read DHT sensor on pin %d after %d attempts: %v", e.Pin, e.Attempts, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// driver is the part of the DHT driver the reader needs.
type driver interface {
	// readRetry returns temperature (°C) and humidity (%) as decoded by the driver.
	readRetry(maxRetries int) (float64, float64, error)
	Close() error
}

// dhtDriver adapts *dht.Sensor to driver.
type dhtDriver struct {
	sensor *dht.Sensor
}

func (d dhtDriver) readRetry(maxRetries int) (float64, float64, error) {
	reading, err := d.sensor.ReadRetry(maxRetries)
	if err != nil {
		return 0, 0, err
	}
	return reading.Temperature, reading.Humidity, nil
}

func (d dhtDriver) Close() error {
	return d.sensor.Close()
}

// DHT11Reader implements DHTSensor for DHT11 hardware
type DHT11Reader struct {
	pin        int
	maxRetries int
	driver     driver
}

// NewDHT11Reader claims the sensor pin. maxRetries <= 0 means a single attempt.
func NewDHT11Reader(pin, maxRetries int) (*DHT11Reader, error) {
	s, err := dht.NewDHT11(pin)
	if err != nil {
		return nil, fmt.Errorf("open DHT11 on pin %d: %w", pin, err)
	}
	return newDHT11Reader(pin, maxRetries, dhtDriver{sensor: s}), nil
}

func newDHT11Reader(pin, maxRetries int, d driver) *DHT11Reader {
	if maxRetries <= 0 {
		maxRetries = 1
	}
	return &DHT11Reader{
		pin:        pin,
		maxRetries: maxRetries,
		driver:     d,
	}
}

// Read performs a reading from the DHT11 sensor with retry logic
func (d *DHT11Reader) Read() (models.Temperature, models.Humidity, error) {
	temp, humidity, err := d.driver.readRetry(d.maxRetries)
	if err != nil {
		return 0, 0, &ReadError{Pin: d.pin, Attempts: d.maxRetries, Err: err}
	}
	// Validate before converting: out-of-range floats would wrap in int16.
	if err := validateReading(temp, humidity); err != nil {
		return 0, 0, &ReadError{Pin: d.pin, Attempts: d.maxRetries, Err: err}
	}

	return models.TemperatureFromFloat(temp), models.HumidityFromFloat(humidity), nil
}

// Close cleans up GPIO resources
func (d *DHT11Reader) Close() error {
	return d.driver.Close()
}

// validateReading checks the decoded values against the sensor envelope.
func validateReading(temp, humidity float64) error {
	const (
		minTemp     = -20.0
		maxTemp     = 60.0
		minHumidity = 0.0
		maxHumidity = 100.0
	)
	if math.IsNaN(temp) || temp < minTemp || temp > maxTemp {
		return fmt.Errorf("%w: temperature %.1f°C outside -20..60°C", ErrInvalidReading, temp)
	}
	if math.IsNaN(humidity) || humidity < minHumidity || humidity > maxHumidity {
		return fmt.Errorf("%w: humidity %.1f%% outside 0..100%%", ErrInvalidReading, humidity)
	}
	return nil
}
