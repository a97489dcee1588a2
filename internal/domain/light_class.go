package domain

// LightClass groups DLI values the way growers describe a spot's light
type LightClass int

const (
	// LowLight is below MediumLightMinDLI: shade and north-facing spots
	LowLight LightClass = iota
	// MediumLight runs from MediumLightMinDLI up to HighLightMinDLI
	MediumLight
	// HighLight is HighLightMinDLI and above: full sun
	HighLight
)

const (
	// MediumLightMinDLI is the lowest DLI of medium light, in mol/m²/day
	MediumLightMinDLI = 6.0
	// HighLightMinDLI is the lowest DLI of high light, in mol/m²/day
	HighLightMinDLI = 12.0
)

// ClassifyDLI returns the light class of one daily light integral
// < 6 is low light, 6-12 is medium light and >= 12 is high light
func ClassifyDLI(dli float64) LightClass {
	switch {
	case dli < MediumLightMinDLI:
		return LowLight
	case dli < HighLightMinDLI:
		return MediumLight
	}
	return HighLight
}

// ClassifyAll classifies every value of a series
func ClassifyAll(values []float64) []LightClass {
	classes := make([]LightClass, len(values))
	for i, v := range values {
		classes[i] = ClassifyDLI(v)
	}
	return classes
}

func (c LightClass) String() string {
	switch c {
	case LowLight:
		return "Low Light"
	case MediumLight:
		return "Medium Light"
	}
	return "High Light"
}
