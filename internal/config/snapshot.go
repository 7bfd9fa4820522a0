package config

// Credentials identify the auxiliary color database. All four fields are
// required; with the SQLite driver the Server field carries the database path.
type Credentials struct {
	Server   string
	Database string
	Username string
	Password string
}

// Voice holds synthesis parameters.
type Voice struct {
	ID           string
	OutputFormat string
}

// Snapshot is a fully loaded configuration. It is replaced wholesale on
// reload and must never be mutated in place.
type Snapshot struct {
	Credentials Credentials

	// Schedule maps "HH:MM" time-of-day strings to announcement type tags.
	// Keys are unordered in storage; callers sort at decision time.
	Schedule map[string]string

	// Templates maps template keys (fiftyfive, hour, rules, ad, custom_*) to
	// format strings containing {time} and {color1..4} placeholders.
	Templates map[string]string

	Voice Voice
}

// New returns an empty snapshot with allocated maps. The default output
// format matches the synthesis service default.
func New() *Snapshot {
	return &Snapshot{
		Schedule:  make(map[string]string),
		Templates: make(map[string]string),
		Voice:     Voice{OutputFormat: "mp3"},
	}
}
