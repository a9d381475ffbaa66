package roster

// Instruction values are lower-case strings in roster files. The empty
// string means the neutral setting.
type (
	Mentality          string
	Width              string
	Depth              string
	PassingStyle       string
	DribblingFrequency string
	ShootingTendency   string
	DefensiveWork      string
	PressingIntensity  string
)

const (
	MentalityConservative Mentality = "conservative"
	MentalityBalanced     Mentality = "balanced"
	MentalityAggressive   Mentality = "aggressive"

	WidthStayWide  Width = "stay_wide"
	WidthNormal    Width = "normal"
	WidthCutInside Width = "cut_inside"
	WidthRoam      Width = "roam"

	DepthStayBack   Depth = "stay_back"
	DepthBalanced   Depth = "balanced"
	DepthGetForward Depth = "get_forward"

	PassingShort  PassingStyle = "short"
	PassingMixed  PassingStyle = "mixed"
	PassingDirect PassingStyle = "direct"

	DribblingRarely DribblingFrequency = "rarely"
	DribblingNormal DribblingFrequency = "normal"
	DribblingOften  DribblingFrequency = "often"

	ShootingConservative ShootingTendency = "conservative"
	ShootingNormal       ShootingTendency = "normal"
	ShootingOnSight      ShootingTendency = "shoot_on_sight"

	DefensiveWorkMinimal DefensiveWork = "minimal"
	DefensiveWorkNormal  DefensiveWork = "normal"
	DefensiveWorkHigh    DefensiveWork = "high"

	PressingLow    PressingIntensity = "low"
	PressingMedium PressingIntensity = "medium"
	PressingHigh   PressingIntensity = "high"
)

// Instructions are a player's individual tactical settings.
type Instructions struct {
	Mentality     Mentality          `yaml:"mentality"`
	Width         Width              `yaml:"width"`
	Depth         Depth              `yaml:"depth"`
	Passing       PassingStyle       `yaml:"passing"`
	Dribbling     DribblingFrequency `yaml:"dribbling"`
	Shooting      ShootingTendency   `yaml:"shooting"`
	DefensiveWork DefensiveWork      `yaml:"defensive_work"`
	Pressing      PressingIntensity  `yaml:"pressing"`
}

// WithDefaults fills unset fields with the neutral setting.
func (in Instructions) WithDefaults() Instructions {
	if in.Mentality == "" {
		in.Mentality = MentalityBalanced
	}
	if in.Width == "" {
		in.Width = WidthNormal
	}
	if in.Depth == "" {
		in.Depth = DepthBalanced
	}
	if in.Passing == "" {
		in.Passing = PassingMixed
	}
	if in.Dribbling == "" {
		in.Dribbling = DribblingNormal
	}
	if in.Shooting == "" {
		in.Shooting = ShootingNormal
	}
	if in.DefensiveWork == "" {
		in.DefensiveWork = DefensiveWorkNormal
	}
	if in.Pressing == "" {
		in.Pressing = PressingMedium
	}
	return in
}

// Tempo is the team's playing speed.
type Tempo string

const (
	TempoVerySlow Tempo = "very_slow"
	TempoSlow     Tempo = "slow"
	TempoNormal   Tempo = "normal"
	TempoFast     Tempo = "fast"
	TempoVeryFast Tempo = "very_fast"
)

// Factor maps the tempo onto 0.2..1.0; unknown values are normal.
func (t Tempo) Factor() float64 {
	switch t {
	case TempoVerySlow:
		return 0.2
	case TempoSlow:
		return 0.4
	case TempoFast:
		return 0.8
	case TempoVeryFast:
		return 1.0
	default:
		return 0.6
	}
}
