package teamfilter

// defaultEntries is the curated tendency table. Win rates come from manual
// review of closing-total results; teams absent from the table carry no
// directional signal and never veto a trigger.
var defaultEntries = []Entry{
	{
		TeamName:     "Indiana Pacers",
		Direction:    DirectionOverOnly,
		OverWinRate:  0.68,
		UnderWinRate: 0.32,
		Warning:      "league-leading pace, unders rarely survive their fourth quarters",
	},
	{
		TeamName:     "Atlanta Hawks",
		Direction:    DirectionOverOnly,
		OverWinRate:  0.64,
		UnderWinRate: 0.36,
		Warning:      "thin defense keeps totals climbing late",
	},
	{
		TeamName:     "Washington Wizards",
		Direction:    DirectionOverOnly,
		OverWinRate:  0.62,
		UnderWinRate: 0.38,
		Warning:      "garbage-time scoring runs hot both ways",
	},
	{
		TeamName:     "Orlando Magic",
		Direction:    DirectionUnderOnly,
		OverWinRate:  0.35,
		UnderWinRate: 0.65,
		Warning:      "half-court grinder, overs need career nights",
	},
	{
		TeamName:     "Miami Heat",
		Direction:    DirectionUnderOnly,
		OverWinRate:  0.38,
		UnderWinRate: 0.62,
		Warning:      "slow pace and zone defense drag totals down",
	},
	{
		TeamName:     "Memphis Grizzlies",
		Direction:    DirectionAvoid,
		OverWinRate:  0.50,
		UnderWinRate: 0.50,
		Warning:      "rotation churn makes their totals a coin flip",
	},
	{
		TeamName:     "Detroit Pistons",
		Direction:    DirectionAvoid,
		OverWinRate:  0.48,
		UnderWinRate: 0.52,
		Warning:      "blowout variance, live pace numbers mislead",
	},
}
