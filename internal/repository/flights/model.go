package flights

import "time"

// FlightDuration is a row of the flight_durations table: hours of flight
// between two IATA city codes.
type FlightDuration struct {
	Source      string  `gorm:"column:source;index"`
	Destination string  `gorm:"column:destination;index"`
	Duration    float64 `gorm:"column:duration"`
}

// TableName forces the table name.
func (FlightDuration) TableName() string {
	return "flight_durations"
}

// FlightPrice is a row of the flight_prices table: the fare between two IATA
// city codes valid inside the [StartDate, EndDate] window.
type FlightPrice struct {
	Source      string    `gorm:"column:source;index"`
	Destination string    `gorm:"column:destination;index"`
	StartDate   time.Time `gorm:"column:start_date"`
	EndDate     time.Time `gorm:"column:end_date"`
	Price       float64   `gorm:"column:price"`
}

// TableName forces the table name.
func (FlightPrice) TableName() string {
	return "flight_prices"
}
