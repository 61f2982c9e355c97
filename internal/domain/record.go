package domain

import "time"

// Record is one normalized sensor reading. Location and Sensor hold the
// canonical form produced by NormalizeLabel and Timestamp is anchored in
// UTC. Value is nil when the source cell was empty or not numeric; such
// records are retained but never contribute to aggregates.
type Record struct {
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	Location  string    `json:"location" bson:"location"`
	Sensor    string    `json:"sensor" bson:"sensor"`
	Value     *float64  `json:"value" bson:"value"`
}
