package mlb

// Team is an MLB franchise as listed by the Stats API.
type Team struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	TeamName     string `json:"team_name"`
	LocationName string `json:"location_name"`
	Division     string `json:"division"`
	League       string `json:"league"`
}

// ScheduledGame is one entry of a day's schedule.
type ScheduledGame struct {
	GamePk     int
	HomeID     int
	AwayID     int
	HomeName   string
	AwayName   string
	HomeScore  *int
	AwayScore  *int
	Status     string
	VenueName  string
	GameNumber int
}

// Person is a player's biographical record.
type Person struct {
	ID           int    `json:"id"`
	FullName     string `json:"full_name"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Position     string `json:"position"`
	JerseyNumber string `json:"jersey_number"`
	Team         string `json:"team"`
	BirthDate    string `json:"birth_date"`
	Height       string `json:"height"`
	Weight       int    `json:"weight"`
	Bats         string `json:"bats"`
	Throws       string `json:"throws"`
}
