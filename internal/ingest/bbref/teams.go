package bbref

// teamCodes maps MLB Stats API team IDs to the franchise codes used in
// Baseball-Reference box score URLs.
var teamCodes = map[int]string{
	108: "ANA", // Los Angeles Angels
	109: "ARI",
	110: "BAL",
	111: "BOS",
	112: "CHN", // Chicago Cubs
	113: "CIN",
	114: "CLE",
	115: "COL",
	116: "DET",
	117: "HOU",
	118: "KCA",
	119: "LAN",
	120: "WAS",
	121: "NYN",
	133: "OAK",
	134: "PIT",
	135: "SDN",
	136: "SEA",
	137: "SFN",
	138: "SLN",
	139: "TBA",
	140: "TEX",
	141: "TOR",
	142: "MIN",
	143: "PHI",
	144: "ATL",
	145: "CHA", // Chicago White Sox
	146: "MIA",
	147: "NYA", // New York Yankees
	158: "MIL",
}

// TeamCode returns the Baseball-Reference code of an MLB team ID.
func TeamCode(teamID int) (string, bool) {
	code, ok := teamCodes[teamID]
	return code, ok
}
