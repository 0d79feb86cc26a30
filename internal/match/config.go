package match

// Config holds the tunable knobs of the matcher. They are configuration, not
// constants: real statement feeds differ enough that deployments tune them.
type Config struct {
	// WindowDays is the maximum distance in days between an incoming record
	// and an existing one for the pair to be considered at all.
	WindowDays int `yaml:"window_days"`
	// HighThreshold is the score at or above which a match is classified
	// exact.
	HighThreshold float64 `yaml:"high_threshold"`
	// LowThreshold is the score at or above which a match is classified a
	// suggestion. Below it the incoming record is new.
	LowThreshold float64 `yaml:"low_threshold"`
	// DateWeight and DescriptionWeight split the score between date
	// proximity and description similarity. Date proximity is weighted
	// slightly higher: free-text descriptions are the least reliable field.
	DateWeight        float64 `yaml:"date_weight"`
	DescriptionWeight float64 `yaml:"description_weight"`
}

// DefaultConfig returns the stock matcher tuning.
func DefaultConfig() Config {
	return Config{
		WindowDays:        3,
		HighThreshold:     0.90,
		LowThreshold:      0.60,
		DateWeight:        0.55,
		DescriptionWeight: 0.45,
	}
}
